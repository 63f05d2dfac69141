// Package grid implements calibrated N-dimensional sample grids and the
// pixel-type conversion engine.
//
// Responsibilities: the axis/shape model, typed sample buffers, point-set
// iteration, clamped sample-format conversion, and composite channel
// collapse by arithmetic averaging.
// Key types: Grid, Axis, Domain, PointSpace, CrossAxis.
//
// Dependency rule: this package never touches the network or the
// database. No SQL/database code is allowed here; persistence lives in
// storage/sqlite.
package grid
