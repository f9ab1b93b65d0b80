package http

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"librismundis/internal/goodreads"
	"librismundis/internal/library"
	"librismundis/internal/snapshot"
	"librismundis/internal/tasks"
)

// TaskEnqueuer is the slice of the task client the transfer controller
// needs.
type TaskEnqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// TransferController handles snapshot export/import, Goodreads imports and
// cover sweep triggers.
type TransferController struct {
	lib        *library.Library
	taskClient TaskEnqueuer
}

func NewTransferController(lib *library.Library, taskClient TaskEnqueuer) *TransferController {
	return &TransferController{lib: lib, taskClient: taskClient}
}

// Export serves the whole library as a downloadable JSON snapshot.
func (controller *TransferController) Export(c *gin.Context) {
	data, err := snapshot.Export(controller.lib).Marshal()
	if err != nil {
		respondInternalError(c, err, "export snapshot")
		return
	}

	filename := fmt.Sprintf("librismundis_export_%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

// Import replaces the library's collections from an uploaded snapshot.
func (controller *TransferController) Import(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBadRequest(c, "could not read request body")
		return
	}

	snap, err := snapshot.Parse(data)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	snapshot.Apply(controller.lib, snap)
	c.JSON(http.StatusOK, gin.H{
		"books":      len(snap.Books),
		"vocabulary": len(snap.Vocabulary),
	})
}

// ImportGoodreads adds books from an uploaded Goodreads CSV export.
func (controller *TransferController) ImportGoodreads(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		// Also accept a raw CSV body for curl-style usage.
		count, importErr := goodreads.Import(controller.lib, c.Request.Body)
		if importErr != nil {
			respondBadRequest(c, importErr.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"imported": count})
		return
	}
	defer file.Close()

	count, err := goodreads.Import(controller.lib, file)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": count})
}

// EnrichCovers queues a background cover sweep.
func (controller *TransferController) EnrichCovers(c *gin.Context) {
	if controller.taskClient == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "task queue disabled"})
		return
	}

	ids, err := controller.taskClient.Add(tasks.EnrichCoversTask{Reason: "api"}).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue cover sweep")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"taskIds": ids})
}
