// Package formdata holds posted form fields as an ordered multi-map.
//
// Browsers submit fields in document order and repeat a name once per value
// (checkbox groups, list inputs). url.Values keeps the values of one key
// together but drops the interleaving between keys, so the playground keeps
// its own representation: a slice of key/value pairs that can be replayed
// exactly as it was received.
package formdata
