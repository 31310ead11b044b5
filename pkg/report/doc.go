// Package report turns solver exports into local artifacts: PDF documents assembled from
// exported images, CSV trace tables, re-plotted charts and XLSX workbooks.
package report
