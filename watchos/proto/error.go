package proto

import "encoding/binary"

// ErrorPayload encodes a MsgError payload.
//
// Layout (little-endian):
//   - u16: code
//   - u16: ref kind (the request kind that failed)
//   - u32: requestID (0 when the request could not be decoded)
func ErrorPayload(code ErrCode, ref Kind, requestID uint32) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(code))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(ref))
	binary.LittleEndian.PutUint32(buf[4:8], requestID)
	return buf
}

// DecodeErrorPayload decodes an ErrorPayload.
func DecodeErrorPayload(payload []byte) (code ErrCode, ref Kind, requestID uint32, ok bool) {
	if len(payload) < 8 {
		return 0, 0, 0, false
	}
	code = ErrCode(binary.LittleEndian.Uint16(payload[0:2]))
	ref = Kind(binary.LittleEndian.Uint16(payload[2:4]))
	requestID = binary.LittleEndian.Uint32(payload[4:8])
	return code, ref, requestID, true
}
