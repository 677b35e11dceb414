// Package gallery is the coordinating context of the image grid. It owns the
// slots for the current directory and runs the pipeline that turns scroll
// samples into load requests:
//
//	scroll sample -> settle -> visible range -> reconcile -> load -> redraw
package gallery
