package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// maxTreeDepth caps the name tree and page tree walks so a cyclic
// Kids chain in a damaged document cannot recurse forever.
const maxTreeDepth = 64

// Extractor handles attachment extraction using the pdfcpu library
type Extractor struct {
	maxFileSize int64
	validator   *Validator
}

// NewExtractor creates a new attachment extractor with the specified constraints
func NewExtractor(maxFileSize int64) *Extractor {
	return &Extractor{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
	}
}

// ExtractAttachments returns every file attachment of a PDF in
// document order: the EmbeddedFiles name tree first, then
// FileAttachment annotations page by page. A PDF without attachments
// yields an empty list. Failures to open or parse the document are
// reported as *UnreadableDocumentError.
func (e *Extractor) ExtractAttachments(req PDFExtractAttachmentsRequest) (*PDFExtractAttachmentsResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(req.Path)
	if err != nil {
		return nil, newUnreadableDocumentError(req.Path, err)
	}
	if err := e.validator.ValidateFileInfo(req.Path, fileInfo); err != nil {
		return nil, newUnreadableDocumentError(req.Path, err)
	}

	file, err := os.Open(req.Path)
	if err != nil {
		return nil, newUnreadableDocumentError(req.Path, err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return nil, newUnreadableDocumentError(req.Path, fmt.Errorf("failed to read PDF context: %w", err))
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, newUnreadableDocumentError(req.Path, fmt.Errorf("failed to resolve page tree: %w", err))
	}

	rootDict, err := ctx.Catalog()
	if err != nil {
		return nil, newUnreadableDocumentError(req.Path, fmt.Errorf("failed to get catalog: %w", err))
	}

	var attachments []Attachment
	e.appendEmbeddedFiles(ctx, rootDict, req.Path, &attachments)
	e.appendAnnotationFiles(ctx, rootDict, req.Path, &attachments)

	return &PDFExtractAttachmentsResult{
		Path:        req.Path,
		Attachments: attachments,
		TotalCount:  len(attachments),
	}, nil
}

// appendEmbeddedFiles collects the attachments of the document-level
// EmbeddedFiles name tree. Documents without the tree are common and
// simply contribute nothing.
func (e *Extractor) appendEmbeddedFiles(ctx *model.Context, rootDict types.Dict, pdfPath string, attachments *[]Attachment) {
	namesObj, found := rootDict.Find("Names")
	if !found {
		return
	}
	namesDict, err := ctx.DereferenceDict(namesObj)
	if err != nil || namesDict == nil {
		return
	}

	treeObj, found := namesDict.Find("EmbeddedFiles")
	if !found {
		return
	}
	treeDict, err := ctx.DereferenceDict(treeObj)
	if err != nil || treeDict == nil {
		return
	}

	e.walkNameTree(ctx, treeDict, 0, pdfPath, attachments)
}

// walkNameTree visits one node of the EmbeddedFiles name tree. Leaf
// nodes carry a Names array of alternating (name, filespec) pairs,
// intermediate nodes a Kids array of child nodes.
func (e *Extractor) walkNameTree(ctx *model.Context, node types.Dict, depth int, pdfPath string, attachments *[]Attachment) {
	if depth > maxTreeDepth {
		return
	}

	if namesObj, found := node.Find("Names"); found {
		if names, err := ctx.DereferenceArray(namesObj); err == nil {
			for i := 0; i+1 < len(names); i += 2 {
				fs, err := ctx.DereferenceDict(names[i+1])
				if err != nil || fs == nil {
					continue
				}
				if a, ok := e.filespecAttachment(ctx, fs, pdfPath, OriginEmbeddedFile, 0, len(*attachments)); ok {
					*attachments = append(*attachments, a)
				}
			}
		}
	}

	if kidsObj, found := node.Find("Kids"); found {
		if kids, err := ctx.DereferenceArray(kidsObj); err == nil {
			for _, kid := range kids {
				kidDict, err := ctx.DereferenceDict(kid)
				if err != nil || kidDict == nil {
					continue
				}
				e.walkNameTree(ctx, kidDict, depth+1, pdfPath, attachments)
			}
		}
	}
}

// appendAnnotationFiles collects the attachments behind FileAttachment
// annotations, walking the page tree in page order.
func (e *Extractor) appendAnnotationFiles(ctx *model.Context, rootDict types.Dict, pdfPath string, attachments *[]Attachment) {
	pagesObj, found := rootDict.Find("Pages")
	if !found {
		return
	}
	pagesDict, err := ctx.DereferenceDict(pagesObj)
	if err != nil || pagesDict == nil {
		return
	}

	pageNr := 0
	e.walkPageTree(ctx, pagesDict, &pageNr, 0, pdfPath, attachments)
}

// walkPageTree descends the page tree. Nodes with a Kids array are
// intermediate Pages nodes, everything else counts as a page.
func (e *Extractor) walkPageTree(ctx *model.Context, node types.Dict, pageNr *int, depth int, pdfPath string, attachments *[]Attachment) {
	if depth > maxTreeDepth {
		return
	}

	if kidsObj, found := node.Find("Kids"); found {
		if kids, err := ctx.DereferenceArray(kidsObj); err == nil {
			for _, kid := range kids {
				kidDict, err := ctx.DereferenceDict(kid)
				if err != nil || kidDict == nil {
					continue
				}
				e.walkPageTree(ctx, kidDict, pageNr, depth+1, pdfPath, attachments)
			}
		}
		return
	}

	*pageNr++

	annotsObj, found := node.Find("Annots")
	if !found {
		return
	}
	annots, err := ctx.DereferenceArray(annotsObj)
	if err != nil {
		return
	}

	for _, annotObj := range annots {
		annot, err := ctx.DereferenceDict(annotObj)
		if err != nil || annot == nil {
			continue
		}

		subtypeObj, found := annot.Find("Subtype")
		if !found {
			continue
		}
		subtype, err := ctx.DereferenceName(subtypeObj, model.V10, nil)
		if err != nil || subtype != "FileAttachment" {
			continue
		}

		fsObj, found := annot.Find("FS")
		if !found {
			continue
		}
		fs, err := ctx.DereferenceDict(fsObj)
		if err != nil || fs == nil {
			continue
		}

		if a, ok := e.filespecAttachment(ctx, fs, pdfPath, OriginAnnotation, *pageNr, len(*attachments)); ok {
			*attachments = append(*attachments, a)
		}
	}
}

// filespecAttachment resolves a single filespec dictionary into an
// Attachment. Filespecs without a decodable embedded payload are
// skipped; a missing name falls back to a generated one.
func (e *Extractor) filespecAttachment(ctx *model.Context, fs types.Dict, pdfPath, origin string, page, index int) (Attachment, bool) {
	data, ok := e.embeddedFileContent(ctx, fs)
	if !ok {
		return Attachment{}, false
	}

	name := e.filespecName(ctx, fs)
	if name == "" {
		if origin == OriginAnnotation {
			name = fmt.Sprintf("page%d.bin", page)
		} else {
			name = fmt.Sprintf("attachment_%d.bin", index)
		}
	}

	return Attachment{
		PDFPath: pdfPath,
		Name:    name,
		Origin:  origin,
		Page:    page,
		Data:    data,
	}, true
}

// filespecName returns the attachment name declared in the filespec,
// preferring the Unicode UF entry over the legacy F entry.
func (e *Extractor) filespecName(ctx *model.Context, fs types.Dict) string {
	for _, key := range []string{"UF", "F"} {
		nameObj, found := fs.Find(key)
		if !found {
			continue
		}
		if name, err := ctx.DereferenceStringOrHexLiteral(nameObj, model.V10, nil); err == nil && name != "" {
			return name
		}
	}
	return ""
}

// embeddedFileContent decodes the stream behind the filespec's EF
// entry, with the same UF over F preference as the name lookup.
func (e *Extractor) embeddedFileContent(ctx *model.Context, fs types.Dict) ([]byte, bool) {
	efObj, found := fs.Find("EF")
	if !found {
		return nil, false
	}
	ef, err := ctx.DereferenceDict(efObj)
	if err != nil || ef == nil {
		return nil, false
	}

	for _, key := range []string{"UF", "F"} {
		streamObj, found := ef.Find(key)
		if !found {
			continue
		}
		sd, _, err := ctx.DereferenceStreamDict(streamObj)
		if err != nil || sd == nil {
			continue
		}
		if err := sd.Decode(); err != nil {
			continue
		}
		return sd.Content, true
	}
	return nil, false
}
