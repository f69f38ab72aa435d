// Package logtail reads the tail of folio's log file and decodes its lines.
//
// # Reading
//
// Read extracts the last maxLines lines from a file in a single pass using a
// ring buffer of size maxLines, so memory stays bounded by the window rather
// than the file. A non-positive maxLines returns every line. A missing file
// is not an error: the TUI opens the Logs view before anything has been
// written.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// # Decoding
//
// folio writes zerolog JSON when logging to a file. Parse lifts the well-known
// keys (time, level, component, resource, op, message, error) into Entry
// fields and keeps any remaining keys as strings in Entry.Fields. The app and
// version keys are dropped since every line carries them. Lines that are not
// JSON objects come back with Message set to the trimmed text so the view can
// still show them.
package logtail
