/*
Package ports defines the driven ports (interfaces) emflow depends on.

The solver ports describe the external application's scripting surface as a black box.
The design handle is split by capability so that each workflow only receives what it
needs: inspection takes an Inspector and therefore cannot mutate a project.

# Key Interfaces

  - Launcher / Desktop: start or attach to the desktop application and open projects.
  - Inspector, Provisioner, Modeler, Executor, PostProcessor: capabilities of an open design.
  - RunStore: persistence of run records.
  - DistributedLocker: cross-process arbitration of the desktop session.
*/
package ports
