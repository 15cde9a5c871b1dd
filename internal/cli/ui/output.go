package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aki/gitboss/internal/core/status"
)

// Stdout and Stderr are where the print helpers write
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

func Error(format string, args ...interface{}) {
	fmt.Fprintf(Stderr, "%s %s\n", ErrorIcon, ErrorStyle.Render(fmt.Sprintf(format, args...)))
}

func Success(format string, args ...interface{}) {
	fmt.Fprintf(Stdout, "%s %s\n", SuccessIcon, SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

func Info(format string, args ...interface{}) {
	fmt.Fprintf(Stdout, "%s %s\n", InfoIcon, InfoStyle.Render(fmt.Sprintf(format, args...)))
}

// Warning goes to stderr so it never mixes with JSON output
func Warning(format string, args ...interface{}) {
	fmt.Fprintf(Stderr, "%s %s\n", WarningIcon, WarningStyle.Render(fmt.Sprintf(format, args...)))
}

// OutputLine prints one unstyled line
func OutputLine(format string, args ...interface{}) {
	fmt.Fprintf(Stdout, format+"\n", args...)
}

// PrintRepositoryList displays tracked repositories in display order
func PrintRepositoryList(paths []string) {
	if len(paths) == 0 {
		Info("No repositories tracked")
		return
	}

	tbl := NewTable("#", "NAME", "PATH")
	for i, p := range paths {
		tbl.AddRow(i+1, baseName(p), DimStyle.Render(p))
	}

	PrintSectionHeader(RepositoryIcon, "Repositories", len(paths))
	tbl.Print()
	fmt.Fprintln(Stdout)
}

// PrintStatus displays the status of one working tree
func PrintStatus(snap *status.Snapshot) {
	fmt.Fprintf(Stdout, "%s %s %s\n", RepositoryIcon, BoldStyle.Render(baseName(snap.Path)), FormatDirty(snap.Dirty))
	fmt.Fprintf(Stdout, "   %s %s\n", DimStyle.Render("Path:"), snap.Path)
	fmt.Fprintf(Stdout, "   %s %s\n", DimStyle.Render("Branch:"), FormatCurrentBranch(snap))
	if len(snap.Branches) > 0 {
		fmt.Fprintf(Stdout, "   %s %s\n", DimStyle.Render("Branches:"), strings.Join(snap.Branches, ", "))
	}

	if snap.ChangedPathsErr != "" {
		fmt.Fprintf(Stdout, "   %s %s\n", DimStyle.Render("Changes:"), WarningStyle.Render("unavailable: "+snap.ChangedPathsErr))
		return
	}
	if len(snap.ChangedPaths) == 0 {
		return
	}
	fmt.Fprintf(Stdout, "   %s\n", DimStyle.Render(fmt.Sprintf("Changes (%d):", len(snap.ChangedPaths))))
	for _, line := range snap.ChangedPaths {
		fmt.Fprintf(Stdout, "     %s\n", line)
	}
}

// PrintStatusTable displays one row per repository. Paths that are not
// working trees are shown with their error.
func PrintStatusTable(results []status.Result) {
	if len(results) == 0 {
		Info("No repositories tracked")
		return
	}

	tbl := NewTable("NAME", "BRANCH", "STATE", "CHANGES", "PATH")
	for _, r := range results {
		if r.Err != nil {
			tbl.AddRow(baseName(r.Path), "-", ErrorStyle.Render("invalid"), "-", DimStyle.Render(r.Path))
			continue
		}
		changes := fmt.Sprintf("%d", len(r.Snapshot.ChangedPaths))
		if r.Snapshot.ChangedPathsErr != "" {
			changes = "?"
		}
		tbl.AddRow(
			baseName(r.Path),
			FormatCurrentBranch(r.Snapshot),
			FormatDirty(r.Snapshot.Dirty),
			changes,
			DimStyle.Render(r.Snapshot.Path),
		)
	}

	PrintSectionHeader(StatusIcon, "Status", len(results))
	tbl.Print()
	fmt.Fprintln(Stdout)
}

// FormatDirty renders the dirty flag
func FormatDirty(dirty bool) string {
	if dirty {
		return DirtyStyle.Render("dirty")
	}
	return CleanStyle.Render("clean")
}

// FormatCurrentBranch renders the checked out branch or the detached state
func FormatCurrentBranch(snap *status.Snapshot) string {
	switch {
	case snap.Detached:
		return WarningStyle.Render("(detached)")
	case snap.CurrentBranch == "":
		return "-"
	default:
		return BranchStyle.Render(snap.CurrentBranch)
	}
}

func baseName(p string) string {
	trimmed := strings.TrimRight(p, "/\\")
	if i := strings.LastIndexAny(trimmed, "/\\"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
