package proto

// LogLinePayload encodes a MsgLogLine payload.
//
// Payload is UTF-8 without a trailing newline. Lines longer than max bytes are
// cut at the last rune boundary that fits.
func LogLinePayload(line string, max int) []byte {
	if max < 0 {
		max = 0
	}
	if len(line) <= max {
		return []byte(line)
	}
	cut := max
	// Back off continuation bytes (10xxxxxx) so the line stays valid UTF-8.
	for cut > 0 && line[cut]&0xC0 == 0x80 {
		cut--
	}
	return []byte(line[:cut])
}
