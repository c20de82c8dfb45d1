// Package modkit holds the pieces every feed module is assembled from
package modkit

import "gridwatch/internal/modkit/module"

// Module is what api.Mount needs from a feed module
type Module = module.Module
