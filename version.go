package emflow

// Version is the emflow release, overridden at build time with -ldflags "-X".
var Version = "0.4.0-dev"
