// Package classify assigns each media file a destination category and path,
// then corrects the path's extension against the sniffed file type.
package classify
