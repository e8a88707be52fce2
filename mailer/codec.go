package mailer

import (
	"encoding/base64"
	"fmt"
	"strings"

	apperrors "github.com/flexprint/mail-relay/errors"
	"github.com/flexprint/mail-relay/types"
	"github.com/gabriel-vasile/mimetype"
)

// MaxTotalAttachmentBytes is the hard cap on the combined decoded size of
// all attachments in one submission: 8 MiB.
const MaxTotalAttachmentBytes = 8 * 1024 * 1024

const defaultFilename = "attachment"

// DecodeAttachments converts wire-form attachments into decoded byte
// buffers, preserving input order. Malformed base64 rejects the whole
// submission as a validation error. The size cap is checked once, after
// every attachment is decoded, so the rejection always reports the true
// combined total.
func DecodeAttachments(in []types.AttachmentIn) ([]types.Attachment, error) {
	if len(in) == 0 {
		return nil, nil
	}

	out := make([]types.Attachment, 0, len(in))
	var total int64

	for i, a := range in {
		payload := a.Content
		// data-URI form "data:<mime>;base64,<data>": the base64 payload is
		// everything after the last comma.
		if idx := strings.LastIndex(payload, ","); idx != -1 {
			payload = payload[idx+1:]
		}

		content, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, apperrors.ValidationFailed(
				"Attachment content is not valid base64",
				fmt.Sprintf("attachment %d (%s): %v", i, filenameOrDefault(a.Filename), err))
		}

		total += int64(len(content))
		out = append(out, types.Attachment{
			Filename:    filenameOrDefault(a.Filename),
			Content:     content,
			ContentType: contentTypeFor(a.ContentType, content),
		})
	}

	if total > MaxTotalAttachmentBytes {
		return nil, apperrors.AttachmentsTooLarge(total, MaxTotalAttachmentBytes)
	}

	return out, nil
}

func filenameOrDefault(name string) string {
	if strings.TrimSpace(name) == "" {
		return defaultFilename
	}
	return name
}

// contentTypeFor picks the outbound content type: the client-declared
// type when present, otherwise a type sniffed from the decoded bytes.
func contentTypeFor(declared string, content []byte) string {
	if declared != "" {
		return declared
	}
	if len(content) == 0 {
		return "application/octet-stream"
	}
	return mimetype.Detect(content).String()
}
