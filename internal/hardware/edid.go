package hardware

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEDID is returned for data that is not an EDID 1.x base block.
var ErrInvalidEDID = errors.New("invalid EDID block")

const edidBlockSize = 128

var edidHeader = []byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

// Display descriptor tags.
const (
	descriptorSerial = 0xFF
	descriptorName   = 0xFC
)

// DecodeEDID builds a Display from the 128-byte EDID base block at the start
// of edid. Extension blocks are kept in Display.EDID but not decoded.
func DecodeEDID(edid []byte) (Display, error) {
	if len(edid) < edidBlockSize {
		return Display{}, fmt.Errorf("%w: %d bytes", ErrInvalidEDID, len(edid))
	}
	if !bytes.Equal(edid[:8], edidHeader) {
		return Display{}, fmt.Errorf("%w: bad header", ErrInvalidEDID)
	}

	d := Display{
		EDID:           append([]byte(nil), edid...),
		ManufacturerID: PNPManufacturer(binary.BigEndian.Uint16(edid[8:10])),
		ProductCode:    fmt.Sprintf("%04X", binary.LittleEndian.Uint16(edid[10:12])),
		Week:           int(edid[16]),
		Year:           int(edid[17]) + 1990,
		EDIDVersion:    fmt.Sprintf("%d.%d", edid[18], edid[19]),
	}
	if serial := binary.LittleEndian.Uint32(edid[12:16]); serial != 0 {
		d.SerialNumber = fmt.Sprintf("%08X", serial)
	}

	for off := 54; off+18 <= edidBlockSize; off += 18 {
		desc := edid[off : off+18]
		// Display descriptors start with a zero pixel clock.
		if desc[0] != 0 || desc[1] != 0 {
			continue
		}
		switch desc[3] {
		case descriptorName:
			d.Name = descriptorText(desc[5:])
		case descriptorSerial:
			if s := descriptorText(desc[5:]); s != "" {
				d.SerialNumber = s
			}
		}
	}
	if d.Name == "" {
		d.Name = d.ManufacturerID + " " + d.ProductCode
	}
	return d, nil
}

// PNPManufacturer decodes the three 5-bit letters of a PNP vendor ID.
func PNPManufacturer(v uint16) string {
	letters := []byte{
		byte((v>>10)&0x1F) + 'A' - 1,
		byte((v>>5)&0x1F) + 'A' - 1,
		byte(v&0x1F) + 'A' - 1,
	}
	for _, c := range letters {
		if c < 'A' || c > 'Z' {
			return ""
		}
	}
	return string(letters)
}

func descriptorText(b []byte) string {
	if i := bytes.IndexByte(b, 0x0A); i >= 0 {
		b = b[:i]
	}
	return strings.TrimSpace(string(b))
}
