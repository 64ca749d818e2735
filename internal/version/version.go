package version

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Подставляются при сборке:
//
//	go build -ldflags "-X mood-server/internal/version.BuildDate=2026-10-18 -X mood-server/internal/version.BuildCommit=$(git rev-parse --short HEAD)"
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
)

// epoch - день, от которого считается номер сборки.
var epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Build - метаданные сборки для лога и /version.
type Build struct {
	Number int    `json:"number"`
	Date   string `json:"date,omitempty"`
	Commit string `json:"commit"`
	Branch string `json:"branch"`
	Go     string `json:"go"`
	Error  string `json:"error,omitempty"`
}

// BuildNumber - число дней от epoch до date.
func BuildNumber(date string) (int, error) {
	if date == "" {
		return 0, errors.New("build date is empty")
	}

	t, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid build date %q: %w", date, err)
	}
	if t.Before(epoch) {
		return 0, fmt.Errorf("build date %s is before %s", date, epoch.Format(time.DateOnly))
	}

	// Обе даты в UTC, сутки всегда 24 часа
	return int(t.Sub(epoch).Hours() / 24), nil
}

// Info собирает сведения о текущей сборке.
// Без ldflags коммит берется из vcs-меток Go, если они есть.
func Info() Build {
	b := Build{
		Date:   BuildDate,
		Commit: coalesce(BuildCommit, vcsRevision(), "unknown"),
		Branch: coalesce(BuildBranch, "unknown"),
		Go:     runtime.Version(),
	}

	n, err := BuildNumber(BuildDate)
	if err != nil {
		b.Error = err.Error()
		return b
	}
	b.Number = n
	return b
}

// String - строка для лога при старте.
func String() string {
	b := Info()
	if b.Error != "" {
		return fmt.Sprintf("mood-server dev build commit[%s] %s (%s)", b.Commit, b.Go, b.Error)
	}
	return fmt.Sprintf("mood-server build %d (%s) commit[%s] branch[%s] %s", b.Number, b.Date, b.Commit, b.Branch, b.Go)
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
