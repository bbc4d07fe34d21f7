// Package platform smooths over operating-system differences in filesystem
// permission handling. On Windows permission bits are not applied.
package platform
