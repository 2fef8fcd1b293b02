// Package outdir manages the report directory of a run.
//
// Every run writes into its own timestamped folder under the output root
// (reports/20240131_051120/). When the run is complete its files are
// mirrored into reports/latest/, which is cleared first. The refresh is
// guarded by an advisory file lock so concurrent runs never interleave
// their files in latest/.
package outdir
