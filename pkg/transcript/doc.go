// Package transcript reads and writes recorded terminal sessions.
//
// # Format
//
// A transcript multiplexes several output streams into one file. Each entry
// is one record:
//
//	stream timestamp length: content\n
//
// # Fields
//
//   - stream: matches [a-zA-Z0-9_./-]{1,64}, for example stdout, stderr or stdin.
//   - timestamp: UTC timestamp in RFC 3339 with nanoseconds:
//     2025-01-07T12:34:56.789Z
//   - length: byte length of content.
//   - content: exactly length bytes. May contain newlines and binary data.
//   - \n: separator, always written after content.
//
// # Example
//
//	stdout 2025-01-07T12:00:00Z 4: foo
//
//	stderr 2025-01-07T12:00:02Z 13: error message
//
// The first record carries "foo\n" and therefore shows an empty line before
// the next record.
package transcript
