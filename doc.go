package appsettings

// Package appsettings provides:
//
// - Declarative, typed setting descriptors resolved from a flat configuration
//   namespace (raw lookup -> default fallback -> transform -> validation)
// - A stable error model via Failures (setting full name, message, params)
//   where Check aggregates every failure instead of stopping at the first
// - Composite settings (NestedDict/NestedList) that resolve their children
//   through the parent's already-fetched raw container
// - Per-group lazy value caches invalidated by change notifications on a Bus
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations
//   under internal/.
// - Sources (map, YAML file, watched file) live next to the descriptors they
//   feed; the library never writes to a source.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	schema, err := appsettings.NewBuilder(appsettings.WithGroupPrefix("myapp_")).
//		Register("debug", appsettings.Bool("", appsettings.WithDefault(false))).
//		Register("workers", appsettings.PositiveInt("", appsettings.WithMaximum(64))).
//		Build()
//
//	group, err := appsettings.NewGroup(schema, source, appsettings.WithBus(bus))
//	defer group.Close()
//
//	debug, err := group.BoolValue("debug")
