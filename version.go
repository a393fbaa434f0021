package rowset

// Version is the library version.
const Version = "0.2.0"

// ProtocolVersion is the version of the tagged cell protocol this library
// consumes. A producer emitting a newer protocol may use tags this version
// does not recognize; conversion then fails with a protocol error instead of
// guessing at the payload.
const ProtocolVersion = 1
