package roleform

import (
	"io/fs"

	"github.com/goliatone/go-roleform/pkg/renderers/vanilla"
)

// RuntimeAssetsFS exposes the stylesheet and runtime script the vanilla
// renderer links to, so Go applications can serve them without a build step.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(roleform.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
