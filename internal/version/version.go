package version

import "fmt"

// Заполняются линкером при сборке (-ldflags "-X ...").
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
)

// Info описывает метаданные сборки в структурированном виде.
type Info struct {
	Date   string `json:"date"`
	Commit string `json:"commit"`
	Branch string `json:"branch"`
}

// Get возвращает метаданные сборки. Безопасно вызывать в любой момент.
func Get() Info {
	return Info{
		Date:   coalesce(BuildDate, "unknown"),
		Commit: coalesce(BuildCommit, "unknown"),
		Branch: coalesce(BuildBranch, "unknown"),
	}
}

// String возвращает человекочитаемую строку сборки.
func String() string {
	i := Get()
	return fmt.Sprintf("ecosim build %s commit[%s] branch[%s]", i.Date, i.Commit, i.Branch)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
