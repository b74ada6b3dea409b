// Package logging configures structured slog output for the cjkfts CLI.
//
// Library code never configures logging itself; it logs through the
// *slog.Logger it is given. The CLI calls Setup when --debug is set, which
// writes JSON records to ~/.cjkfts/logs/cjkfts.log with size-based rotation;
// Viewer reads them back for 'cjkfts logs'.
package logging
