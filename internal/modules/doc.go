// Package modules contains the self-contained application features.
//
// Each subdirectory implements module.Module. Modules are listed in
// internal/app/modules.go and each is mounted under "/"+Name() behind the
// session guard.
package modules
