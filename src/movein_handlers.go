package main

import (
	"log"
	"net/http"

	"rcm/src/services"
	"rcm/src/types"
	"rcm/src/utils"

	"github.com/gin-gonic/gin"
)

// moveInCategories maps the URL segment of each applicant category onto the
// request type it creates. Each category is registered as its own static
// route.
var moveInCategories = map[string]types.RequestType{
	"owner":       types.TYPE_OWNER,
	"tenant":      types.TYPE_TENANT,
	"hho-unit":    types.TYPE_HHO_OWNER,
	"hhc-company": types.TYPE_HHO_COMPANY,
}

func moveInAdminHandlers(g *gin.RouterGroup, svc *services.MoveInService, docs *services.DocumentService) *gin.RouterGroup {
	for segment, reqType := range moveInCategories {
		g.POST("/move-in/"+segment, createMoveInHandler(svc, reqType))
		g.PUT("/move-in/"+segment+"/:requestId", updateMoveInHandler(svc, false))
	}
	g.
		GET("/move-in/request-list", func(ctx *gin.Context) {
			var query types.RequestListQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			actor := utils.CurrentActor(ctx)
			requests, pagination, err := svc.List(actor, query, false)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			utils.RespondPage(ctx, requests, pagination)
		}).
		GET("/move-in/request/:requestId", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			actor := utils.CurrentActor(ctx)
			request, err := svc.Get(actor, params.RequestID, false)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			utils.RespondData(ctx, http.StatusOK, request)
		}).
		GET("/move-in/request/:requestId/logs", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			logs, err := svc.Logs(params.RequestID)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			utils.RespondData(ctx, http.StatusOK, logs)
		}).
		PUT("/move-in/request/:requestId/approve", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			var body types.ApproveRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error parsing body: %s\n", err.Error())
			}
			actor := utils.CurrentActor(ctx)
			request, err := svc.Approve(actor, params.RequestID, body)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			utils.RespondData(ctx, http.StatusOK, request)
		}).
		PUT("/move-in/request/:requestId/rfi", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			var body types.MarkRFIRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			actor := utils.CurrentActor(ctx)
			request, err := svc.MarkRFI(actor, params.RequestID, body)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			utils.RespondData(ctx, http.StatusOK, request)
		}).
		PUT("/move-in/request/:requestId/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			var body types.CancelRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			actor := utils.CurrentActor(ctx)
			request, err := svc.Cancel(actor, params.RequestID, body, false)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			utils.RespondData(ctx, http.StatusOK, request)
		}).
		PUT("/move-in/request/:requestId/close", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			var body types.CloseMoveInRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			actor := utils.CurrentActor(ctx)
			request, err := svc.Close(actor, params.RequestID, body)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			utils.RespondData(ctx, http.StatusOK, request)
		}).
		POST("/move-in/request/:requestId/documents", func(ctx *gin.Context) {
			documentUploadHandler(ctx, docs, types.WORKFLOW_MOVE_IN, false)
		}).
		GET("/move-in/request/:requestId/documents", func(ctx *gin.Context) {
			documentListHandler(ctx, docs, types.WORKFLOW_MOVE_IN, false)
		})
	return g
}

func moveInMobileHandlers(g *gin.RouterGroup, svc *services.MoveInService, docs *services.DocumentService) *gin.RouterGroup {
	for segment, reqType := range moveInCategories {
		g.POST("/move-in/"+segment, createMoveInHandler(svc, reqType))
	}
	g.
		GET("/move-in/request-list", func(ctx *gin.Context) {
			var query types.RequestListQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			actor := utils.CurrentActor(ctx)
			requests, pagination, err := svc.List(actor, query, true)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			utils.RespondPage(ctx, requests, pagination)
		}).
		GET("/move-in/request/:requestId", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			actor := utils.CurrentActor(ctx)
			request, err := svc.Get(actor, params.RequestID, true)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			utils.RespondData(ctx, http.StatusOK, request)
		}).
		PUT("/move-in/request/:requestId", updateMoveInHandler(svc, true)).
		PUT("/move-in/request/:requestId/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			var body types.CancelRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			actor := utils.CurrentActor(ctx)
			request, err := svc.Cancel(actor, params.RequestID, body, true)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			utils.RespondData(ctx, http.StatusOK, request)
		}).
		POST("/move-in/request/:requestId/documents", func(ctx *gin.Context) {
			documentUploadHandler(ctx, docs, types.WORKFLOW_MOVE_IN, true)
		}).
		GET("/move-in/request/:requestId/documents", func(ctx *gin.Context) {
			documentListHandler(ctx, docs, types.WORKFLOW_MOVE_IN, true)
		})
	return g
}

func createMoveInHandler(svc *services.MoveInService, reqType types.RequestType) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var body types.CreateMoveInRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			utils.RespondValidationError(ctx, err)
			return
		}
		actor := utils.CurrentActor(ctx)
		request, err := svc.Create(actor, reqType, body)
		if err != nil {
			utils.RespondError(ctx, err)
			return
		}
		utils.RespondCreated(ctx, request)
	}
}

func updateMoveInHandler(svc *services.MoveInService, forUser bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			utils.RespondValidationError(ctx, err)
			return
		}
		var body types.UpdateMoveInRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			utils.RespondValidationError(ctx, err)
			return
		}
		actor := utils.CurrentActor(ctx)
		request, err := svc.Update(actor, params.RequestID, body, forUser)
		if err != nil {
			utils.RespondError(ctx, err)
			return
		}
		utils.RespondData(ctx, http.StatusOK, request)
	}
}

// documentUploadHandler reads a multipart form where each field name is a
// document type slot and every part under it is a file for that slot. The
// whole batch is validated before anything hits storage.
func documentUploadHandler(ctx *gin.Context, docs *services.DocumentService, workflow types.Workflow, forUser bool) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		utils.RespondValidationError(ctx, err)
		return
	}
	form, err := ctx.MultipartForm()
	if err != nil {
		utils.RespondValidationError(ctx, err)
		return
	}
	uploads := make([]services.DocumentUpload, 0, len(form.File))
	opened := make([]interface{ Close() error }, 0, len(form.File))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for field, headers := range form.File {
		for _, header := range headers {
			f, err := header.Open()
			if err != nil {
				log.Printf("Error opening upload %s: %s\n", header.Filename, err.Error())
				utils.RespondValidationError(ctx, err)
				return
			}
			opened = append(opened, f)
			uploads = append(uploads, services.DocumentUpload{
				Type:     types.DocumentType(field),
				FileName: header.Filename,
				Body:     f,
			})
		}
	}
	actor := utils.CurrentActor(ctx)
	created, err := docs.Upload(ctx.Request.Context(), actor, workflow, params.RequestID, uploads, forUser)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	utils.RespondCreated(ctx, created)
}

func documentListHandler(ctx *gin.Context, docs *services.DocumentService, workflow types.Workflow, forUser bool) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		utils.RespondValidationError(ctx, err)
		return
	}
	actor := utils.CurrentActor(ctx)
	documents, err := docs.List(actor, workflow, params.RequestID, forUser)
	if err != nil {
		utils.RespondError(ctx, err)
		return
	}
	utils.RespondData(ctx, http.StatusOK, documents)
}
