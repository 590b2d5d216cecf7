// Package contrast computes WCAG 2.x contrast ratios between picked colors and
// classifies them against the AA and AAA thresholds.
//
// Every ordered pair of distinct list entries produces a Result, so n colors
// yield n*(n-1) results. The ratio of (A,B) equals that of (B,A); both are
// kept because foreground and background roles differ for the reader.
//
// Results record AA and AAA compliance together. Switching the selected Level
// only changes which flag is consulted, never the computed results.
//
// Whether text counts as "large" is a caller policy passed in per evaluation;
// nothing here tries to infer text size from pixels.
package contrast
