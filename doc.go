/*
Package emflow automates an HFSS-class electromagnetic solver desktop: it inspects saved
projects, provisions analysis setups and frequency sweeps, builds parametric unit-cell or
tag geometry with its excitation topology, solves, and exports reports as images, CSV,
XLSX and a PDF document.

# Concept

The solver is reached through ports (pkg/ports). A Launcher starts or attaches to the
desktop application, which is a process-wide singleton; a Design handle exposes read-only
inspection, setup provisioning, modeling, execution and post-processing. The production
adapter (pkg/adapters/bridge) speaks JSON-RPC to a scripting bridge running next to the
desktop. The in-memory adapter (pkg/adapters/memory) records every call and is what the
tests and the CLI's --dry-run mode use.

A provisioning run is a Plan executed as ordered stages:

	bootstrap -> variables -> geometry -> topology -> setup -> sweep -> solve -> export -> document -> teardown

Each stage checks for existing objects by name before creating them, so re-running a plan
against a project that already holds its setup, sweep or boundaries issues no duplicate
creations. A stage failure skips the remaining stages, but teardown always releases the
desktop. Every run is persisted as a RunRecord (memory, JSON files or Redis).

# Usage

	launcher := bridge.NewLauncher(bridge.Config{Command: "emflow-bridge"}.WithDefaults())
	eng, err := emflow.New(launcher, emflow.WithStore(file.New("")))
	if err != nil {
		log.Fatal(err)
	}

	rep, err := eng.Inspect(ctx, domain.ProjectRef{Path: "cell.aedt"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(rep.SetupNames())

	cfg, err := config.Load("emflow.yaml")
	if err != nil {
		log.Fatal(err)
	}
	rec, err := eng.Run(ctx, cfg.Plan())
*/
package emflow
