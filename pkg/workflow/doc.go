/*
Package workflow implements the provisioning steps that drive a solver design:
read-only inspection, setup and sweep provisioning, geometry and topology building,
execution and export. Pipeline strings the steps together as ordered stages with
preconditions and records every run.

Each step accepts the narrowest port it needs. Inspect only ever sees a ports.Inspector,
so it cannot issue a mutating call.
*/
package workflow
