// Package cmd contains the batch drivers that compute document expansion features. Each driver lives in its own
// directory; this package holds the supporting code they share, such as loading resources named in a properties
// file and setting up output.
package cmd
