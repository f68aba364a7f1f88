package proto

import "encoding/binary"

// SleepPayload encodes a MsgSleep request payload.
//
// Layout (little-endian):
//   - u32: requestID
//   - u32: dt ticks
func SleepPayload(requestID uint32, dt uint32) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], requestID)
	binary.LittleEndian.PutUint32(buf[4:8], dt)
	return buf
}

// DecodeSleepPayload decodes a SleepPayload.
func DecodeSleepPayload(payload []byte) (requestID uint32, dt uint32, ok bool) {
	if len(payload) < 8 {
		return 0, 0, false
	}
	requestID = binary.LittleEndian.Uint32(payload[0:4])
	dt = binary.LittleEndian.Uint32(payload[4:8])
	return requestID, dt, true
}

// WakePayload encodes a MsgWake response payload.
//
// Layout (little-endian):
//   - u32: requestID
func WakePayload(requestID uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf[0:4], requestID)
	return buf
}

// DecodeWakePayload decodes a WakePayload.
func DecodeWakePayload(payload []byte) (requestID uint32, ok bool) {
	if len(payload) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(payload[0:4]), true
}

// WallTime is the calendar view of a minute boundary.
type WallTime struct {
	Year   uint16
	Month  uint8
	Day    uint8
	Hour   uint8
	Minute uint8
}

// MinuteTickPayload encodes a MsgMinuteTick payload.
//
// Layout (little-endian):
//   - u8: hour (0-23)
//   - u8: minute (0-59)
//   - u16: year
//   - u8: month (1-12)
//   - u8: day (1-31)
func MinuteTickPayload(t WallTime) []byte {
	buf := make([]byte, 6)
	buf[0] = t.Hour
	buf[1] = t.Minute
	binary.LittleEndian.PutUint16(buf[2:4], t.Year)
	buf[4] = t.Month
	buf[5] = t.Day
	return buf
}

// DecodeMinuteTickPayload decodes a MinuteTickPayload.
//
// Hours above 23 and minutes above 59 are rejected.
func DecodeMinuteTickPayload(payload []byte) (t WallTime, ok bool) {
	if len(payload) < 6 {
		return WallTime{}, false
	}
	t = WallTime{
		Hour:   payload[0],
		Minute: payload[1],
		Year:   binary.LittleEndian.Uint16(payload[2:4]),
		Month:  payload[4],
		Day:    payload[5],
	}
	if t.Hour > 23 || t.Minute > 59 {
		return WallTime{}, false
	}
	return t, true
}
