// Package envfile seeds a project's .env file from its .env.example and
// reads the KEY=VALUE entries of such files.
package envfile
