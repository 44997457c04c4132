// Package pkg contains the public deconflict libraries.
//
// The packages are layered bottom-up:
//
//   - geom: segment and rectangle primitives for intersection tests
//   - layout: the layout document model and its JSON serialization
//   - conflict: the three conflict detectors over a layout snapshot
//   - resolve: the bounded scan-fix-rescan repair loop and its report
//   - pipeline: load → resolve → write orchestration with caching
//   - cache: file, Redis, and null cache backends
//   - observability: hook registry for external instrumentation
//   - errors: structured error codes shared across surfaces
//   - buildinfo: ldflags-injected version information
//
// Most integrations only need resolve and layout:
//
//	l, err := layout.ReadLayoutFile("layout.json")
//	if err != nil {
//	    return err
//	}
//	report := resolve.New(resolve.DefaultConfig(), nil).Run(ctx, l)
//	fmt.Print(report.Text())
package pkg
