// Package throwable provides error values that carry their stack frames and
// renders error chains in the classic
//
//	message (Type)
//		frame
//		frame
//	Caused by: message (Type)
//		frame
//
// layout.
//
// Frames are read from any error implementing Framer, and from errors
// created with github.com/pkg/errors, which expose a StackTrace method.
// Foreign wraps an error that crossed in from another runtime (a plugin
// host, an embedded interpreter, a remote worker); loggers unwrap it so
// backends only ever see the native error.
package throwable
