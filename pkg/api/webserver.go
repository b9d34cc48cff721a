package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chenBenjamin97/football-coach/pkg/pipeline"
	"github.com/chenBenjamin97/football-coach/pkg/utils"
	"github.com/chenBenjamin97/football-coach/pkg/video"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

//FrameProcessor is the pipeline as seen by the web server
type FrameProcessor interface {
	Process(ctx context.Context, path string, opts pipeline.Options) (*video.FeedbackResult, error)
}

type Server struct {
	Processor    FrameProcessor
	UploadsDir   string
	ProcessedDir string
}

func SetRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	apiRoutes := r.Group("/api")

	apiRoutes.GET("/Health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiRoutes.GET("/ProcessedImagesNames", func(ctx *gin.Context) {
		if !dirExists(s.ProcessedDir) { //nothing processed yet
			ctx.JSON(http.StatusOK, []string{})
			return
		}

		if names, err := utils.ListDir(s.ProcessedDir); err != nil {
			ctx.Status(http.StatusInternalServerError)
		} else {
			ctx.JSON(http.StatusOK, names)
		}
	})

	apiRoutes.GET("/Processed", func(ctx *gin.Context) {
		name := ctx.Query("name")
		if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
			ctx.Status(http.StatusNotAcceptable) //missing or unsafe url parameter
			return
		}

		imagePath := filepath.Join(s.ProcessedDir, name)
		if _, err := os.Stat(imagePath); err != nil {
			if os.IsNotExist(err) {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusInternalServerError)
			return
		}

		ctx.Header("Content-Type", "image/png")
		http.ServeFile(ctx.Writer, ctx.Request, imagePath)
	})

	apiRoutes.POST("/Process", func(ctx *gin.Context) {
		fHeader, err := ctx.FormFile("image")
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing 'image' file"})
			return
		}

		ext := strings.ToLower(filepath.Ext(fHeader.Filename))
		if !utils.InSlice(ext, utils.SupportedImageExts) {
			ctx.JSON(http.StatusUnsupportedMediaType, gin.H{"error": fmt.Sprintf("unsupported extension '%s'", ext)})
			return
		}

		leftFoot := false
		if v := ctx.PostForm("leftFoot"); v != "" {
			if leftFoot, err = strconv.ParseBool(v); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "leftFoot must be true or false"})
				return
			}
		}

		if err := utils.EnsureDir(s.UploadsDir); err != nil {
			log.Error().Err(err).Msg("api/Process: Could not create uploads directory")
			ctx.Status(http.StatusInternalServerError)
			return
		}

		//never trust client's file name, keep only its extension
		srcFilePath := filepath.Join(s.UploadsDir, uuid.NewString()+ext)
		if err := ctx.SaveUploadedFile(fHeader, srcFilePath); err != nil {
			log.Error().Err(err).Str("path", srcFilePath).Msg("api/Process: Could not write uploaded file")
			ctx.Status(http.StatusInternalServerError)
			return
		}
		defer os.Remove(srcFilePath)

		log.Info().Str("name", fHeader.Filename).Int64("size", fHeader.Size).Msg("api/Process: Received new image")

		result, err := s.Processor.Process(ctx.Request.Context(), srcFilePath, pipeline.Options{
			Locale:   ctx.PostForm("language"),
			LeftFoot: leftFoot,
		})
		if err != nil {
			ctx.JSON(statusOf(err), gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(http.StatusOK, result)
	})

	return r
}

//statusOf maps pipeline failures to HTTP status codes
func statusOf(err error) int {
	var (
		decodeErr  *video.DecodeError
		segmentErr *video.SegmentationError
	)

	switch {
	case errors.As(err, &decodeErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &segmentErr):
		return http.StatusBadGateway
	default: //*video.PersistError included
		return http.StatusInternalServerError
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()
		log.Debug().
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status", ctx.Writer.Status()).
			Msg("HTTP request")
	}
}
