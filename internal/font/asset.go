package font

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Asset layout (little endian):
//
//	"WCFT" u8 version u32 count
//	count × { u16 width, u16 height, u32 length, length bytes }
//
// length 0 marks an absent glyph.
var assetMagic = [4]byte{'W', 'C', 'F', 'T'}

const (
	assetVersion = 1
	maxGlyphs    = 1 << 16
)

var ErrBadAsset = errors.New("bad font asset")

func Encode(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(assetMagic[:]); err != nil {
		return err
	}
	if err := bw.WriteByte(assetVersion); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(t.Len())); err != nil {
		return err
	}
	for _, g := range t.glyphs {
		hdr := struct {
			Width, Height uint16
			Length        uint32
		}{uint16(g.Width), uint16(g.Height), uint32(len(g.Data))}
		if err := binary.Write(bw, binary.LittleEndian, hdr); err != nil {
			return err
		}
		if _, err := bw.Write(g.Data); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func Decode(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: read magic: %v", ErrBadAsset, err)
	}
	if magic != assetMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadAsset, magic[:])
	}
	version, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: read version: %v", ErrBadAsset, err)
	}
	if version != assetVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadAsset, version)
	}
	var count uint32
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: read count: %v", ErrBadAsset, err)
	}
	if count > maxGlyphs {
		return nil, fmt.Errorf("%w: %d glyphs", ErrBadAsset, count)
	}

	glyphs := make([]Glyph, count)
	for i := range glyphs {
		var hdr struct {
			Width, Height uint16
			Length        uint32
		}
		if err := binary.Read(br, binary.LittleEndian, &hdr); err != nil {
			return nil, fmt.Errorf("%w: glyph %d header: %v", ErrBadAsset, i, err)
		}
		g := Glyph{Width: int(hdr.Width), Height: int(hdr.Height)}
		if hdr.Length > 0 {
			if want := Stride(g.Width) * g.Height; int(hdr.Length) != want {
				return nil, fmt.Errorf("%w: glyph %d length %d, want %d", ErrBadAsset, i, hdr.Length, want)
			}
			g.Data = make([]byte, hdr.Length)
			if _, err := io.ReadFull(br, g.Data); err != nil {
				return nil, fmt.Errorf("%w: glyph %d data: %v", ErrBadAsset, i, err)
			}
		}
		glyphs[i] = g
	}
	return NewTable(glyphs)
}

// Load reads an asset file from disk.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font asset: %w", err)
	}
	t, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode font asset %q: %w", path, err)
	}
	return t, nil
}

// Save writes t to path.
func Save(path string, t *Table) error {
	var buf bytes.Buffer
	if err := Encode(&buf, t); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
