// Package services holds the error taxonomy shared by the catalog, extractor,
// and playlist clients. Sentinel markers classify failures so callers can
// decide between degrading an item and aborting the run.
package services
