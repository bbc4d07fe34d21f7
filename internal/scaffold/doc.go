// Package scaffold materializes a template Structure on a filesystem: every
// declared folder is created with a .keep marker inside it, and every declared
// file is written with its literal content. It powers "adaptmax init".
package scaffold
