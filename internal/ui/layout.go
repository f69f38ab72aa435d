package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show name and currency columns.
	LayoutWideWidth = 120
)

// Log display limits.
const (
	// LogDefaultLines is used when prefs carry no log_lines value.
	LogDefaultLines = 400
)

// Timing constants.
const (
	// DefaultRefreshTick is how often the model re-reads store snapshots.
	DefaultRefreshTick = 500 * time.Millisecond

	// FlashDuration is how long a status message stays in the command bar.
	FlashDuration = 4 * time.Second
)
