package touch

import "encoding/binary"

// isTouchDown decodes one input_event record whose timeval is tvSize bytes.
func isTouchDown(rec []byte, tvSize int) bool {
	if len(rec) < tvSize+8 {
		return false
	}
	typ := binary.LittleEndian.Uint16(rec[tvSize : tvSize+2])
	code := binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4])
	value := int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8]))
	return typ == evKeyType && code == btnTouchCode && value == 1
}

// Linux input-event-codes.h
const (
	evKeyType    = 0x01
	btnTouchCode = 0x14a
)
