// Package photos stores captured photos under the configured photo
// directory, one subdirectory per individual. It is the local stand-in for
// remote object storage: uploads are verified copies and the returned
// location is a file URL.
package photos
