/*
Package domain contains the data model emflow uses to describe work for the external
electromagnetic solver.

Nothing here talks to the solver. The types are plain values that the workflow package
renders into solver calls and that the run store persists.

# Key Entities

  - SessionOptions / ProjectRef: which desktop version to drive and which project/design to open.
  - SetupSpec / SweepSpec: analysis setup convergence properties and frequency sweep plans.
  - Boundary: a named, typed boundary or excitation with its property bag.
  - Topology: the excitation topology of a model, either Periodic (unit cell) or Finite (tag).
  - InspectionReport: the read-only summary produced by inspecting a design.
  - RunRecord: the persisted history of one pipeline run, stage by stage.
*/
package domain
