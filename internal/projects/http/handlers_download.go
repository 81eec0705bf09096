package http

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/zip"

	"github.com/markode-co/MarkodeAITool/internal/auth"
	"github.com/markode-co/MarkodeAITool/internal/logging"
	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// download streams the project's generated files as a zip archive.
func (h *Handler) download(c *gin.Context) {
	p, err := h.projects.Get(c.Request.Context(), auth.UserFirebaseUID(c), c.Param("id"))
	if err != nil {
		writeError(c, "download_project", err)
		return
	}
	if p.Artifact.IsEmpty() {
		writeError(c, "download_project", domain.ErrNoArtifact)
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.zip"`, archiveName(p)))
	c.Status(http.StatusOK)

	if err := writeArchive(c.Writer, p.Artifact); err != nil {
		// headers are already sent; the truncated archive is all we can do
		logging.New(c.Request.Context()).LogErrorf("download_project", "project_id=%s error=%v", p.ID, err)
	}
}

func writeArchive(w io.Writer, art *domain.GeneratedArtifact) error {
	zw := zip.NewWriter(w)

	names := make([]string, 0, len(art.Files))
	for name := range art.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return err
		}
		if _, err := f.Write([]byte(art.Files[name])); err != nil {
			return err
		}
	}
	return zw.Close()
}

func archiveName(p *domain.Project) string {
	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.ToLower(p.Name), "-"), "-.")
	if name == "" {
		return p.ID
	}
	return name
}
