// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/xayahn/eduforge/lib/netutil"
)

// Digest is the keyed BLAKE3 hash of an attachment's bytes.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether no file was hashed.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// attachmentDomainKey separates attachment digests from any other
// BLAKE3 use of the same bytes.
var attachmentDomainKey = [32]byte{
	'e', 'd', 'u', 'f', 'o', 'r', 'g', 'e', '.', 'u', 'p', 'l', 'o', 'a', 'd', '.',
	'a', 't', 't', 'a', 'c', 'h', 'm', 'e', 'n', 't', 0, 0, 0, 0, 0, 0,
}

// HashAttachment returns the digest of data.
func HashAttachment(data []byte) Digest {
	hasher, err := blake3.NewKeyed(attachmentDomainKey[:])
	if err != nil {
		panic("upload: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

type formField struct {
	name  string
	value string
}

// Form is an ordered multipart form with at most one file part.
type Form struct {
	fields    []formField
	fileField string
	file      *Descriptor
}

// AddField appends a text field.
func (f *Form) AddField(name, value string) {
	f.fields = append(f.fields, formField{name: name, value: value})
}

// SetFile sets the file part, replacing any previous one.
func (f *Form) SetFile(field string, descriptor *Descriptor) {
	f.fileField = field
	f.file = descriptor
}

// Body is an encoded form ready to send.
type Body struct {
	Bytes       []byte
	ContentType string

	// Digest is the file part's hash; zero when the form has no file.
	Digest Digest

	// FileSize is the file part's length in bytes.
	FileSize int64
}

// Encode writes the fields in order followed by the file part.
func (f *Form) Encode(ctx context.Context) (Body, error) {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	for _, field := range f.fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return Body{}, fmt.Errorf("upload: writing field %s: %w", field.name, err)
		}
	}

	var body Body
	if f.file != nil {
		digest, size, err := f.writeFile(ctx, writer)
		if err != nil {
			return Body{}, err
		}
		body.Digest = digest
		body.FileSize = size
	}

	if err := writer.Close(); err != nil {
		return Body{}, fmt.Errorf("upload: closing multipart body: %w", err)
	}
	body.Bytes = buffer.Bytes()
	body.ContentType = writer.FormDataContentType()
	return body, nil
}

func (f *Form) writeFile(ctx context.Context, writer *multipart.Writer) (Digest, int64, error) {
	content, err := f.file.Open(ctx)
	if err != nil {
		return Digest{}, 0, err
	}
	defer content.Close()

	data, err := netutil.ReadAttachment(content)
	if err != nil {
		return Digest{}, 0, fmt.Errorf("upload: reading %s: %w", f.file.Name(), err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(f.fileField), escapeQuotes(f.file.Name())))
	header.Set("Content-Type", f.file.MIMEType())

	part, err := writer.CreatePart(header)
	if err != nil {
		return Digest{}, 0, fmt.Errorf("upload: creating file part: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		return Digest{}, 0, fmt.Errorf("upload: writing file part: %w", err)
	}
	return HashAttachment(data), int64(len(data)), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
