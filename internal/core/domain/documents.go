package domain

import "strings"

// DocumentSlot is one of the eight upload positions on the form. Slots are
// processed in declaration order when a submission carries files; the order
// only drives status messaging, each slot succeeds or fails on its own.
type DocumentSlot struct {
	// Tag names the slot in submissions and in generated filenames.
	Tag string
	// Header is the spreadsheet column that receives the uploaded URL.
	Header string
	// Folder is the logical blob-store category for the file.
	Folder string
}

var DocumentSlots = []DocumentSlot{
	{Tag: "person", Header: "photo (passport size)", Folder: "photo"},
	{Tag: "passportCopy_front", Header: "passport photo (front)", Folder: "copy"},
	{Tag: "passportCopy_back", Header: "passport photo (back)", Folder: "copy"},
	{Tag: "aadhar_front", Header: "Aadhar Image (front)", Folder: "adhar"},
	{Tag: "aadhar_back", Header: "Aadhar Image (back)", Folder: "adhar"},
	{Tag: "pancard", Header: "pancard image", Folder: "pancard"},
	{Tag: "passbook", Header: "bank pasbook", Folder: "passbook"},
	{Tag: "medical", Header: "Medical Documents (If any)", Folder: "medical"},
}

// SlotByTag looks a slot up by its submission tag.
func SlotByTag(tag string) (DocumentSlot, bool) {
	for _, s := range DocumentSlots {
		if s.Tag == tag {
			return s, true
		}
	}
	return DocumentSlot{}, false
}

// documentPatterns mirror the sheet's current headers plus the legacy
// column names older sheets may still carry.
var documentPatterns = []string{
	"photo (passport size)",
	"passport photo (front)",
	"passport photo (back)",
	"aadhar image",
	"pancard image",
	"bank pasbook",
	"medical documents",
	"photo upload",
	"passport copy front",
	"passport copy back",
}

func isDocumentHeader(lower string) bool {
	for _, p := range documentPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// IsDocumentHeader reports whether the header holds an uploaded-document URL
// rather than plain text.
func IsDocumentHeader(header string) bool {
	return isDocumentHeader(strings.ToLower(strings.TrimSpace(header)))
}

// UploadFilename builds the deterministic blob name for a slot:
// "<passportNo>_<tag>" with ".pdf" for PDF payloads and ".jpg" otherwise.
func UploadFilename(passportNo, tag, contentType string) string {
	ext := ".jpg"
	if strings.EqualFold(contentType, "application/pdf") {
		ext = ".pdf"
	}
	return passportNo + "_" + tag + ext
}
