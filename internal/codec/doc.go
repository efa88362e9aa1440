// Package codec converts binary artifacts to and from Base64 text form
// for transport through text-only channels. It performs no content
// transformation beyond the encoding itself.
package codec
