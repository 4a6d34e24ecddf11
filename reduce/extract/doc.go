// Package extract collapses a sky-subtracted trace into a one-dimensional
// spectrum by summing the trace rows at every spectral column.
//
//	ex := extract.New(sub, frame.Full(sub.Rows()))
//	spec, err := ex.ExtractTrace()
package extract
