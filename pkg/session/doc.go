/*
Package session arbitrates access to the external desktop application.

The desktop is a process-wide singleton: two workflows driving the same release at the
same time would interleave their scripting calls. The Manager serializes work per desktop
key with a reference-counted in-process mutex and, when configured, a distributed lock so
that separate emflow processes (CLI runs, the HTTP server) also take turns.
*/
package session
