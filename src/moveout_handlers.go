package main

import (
	"log"
	"net/http"

	"rcm/src/services"
	"rcm/src/types"
	"rcm/src/utils"

	"github.com/gin-gonic/gin"
)

func moveOutAdminHandlers(g *gin.RouterGroup, svc *services.MoveOutService, docs *services.DocumentService) *gin.RouterGroup {
	g.
		GET("/move-out/request-list", func(ctx *gin.Context) {
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
		GET("/move-out/request/:requestId", func(ctx *gin.Context) {
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
		GET("/move-out/request/:requestId/logs", func(ctx *gin.Context) {
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
		POST("/move-out/request", func(ctx *gin.Context) {
			var body types.CreateMoveOutRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			actor := utils.CurrentActor(ctx)
			request, err := svc.Create(actor, body)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			utils.RespondCreated(ctx, request)
		}).
		PUT("/move-out/request/:requestId/approve", func(ctx *gin.Context) {
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
		PUT("/move-out/request/:requestId/cancel", func(ctx *gin.Context) {
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
		PUT("/move-out/request/:requestId/close", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			var body types.CloseMoveOutRequestBody
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
		POST("/move-out/request/:requestId/documents", func(ctx *gin.Context) {
			documentUploadHandler(ctx, docs, types.WORKFLOW_MOVE_OUT, false)
		}).
		GET("/move-out/request/:requestId/documents", func(ctx *gin.Context) {
			documentListHandler(ctx, docs, types.WORKFLOW_MOVE_OUT, false)
		})
	return g
}

func moveOutMobileHandlers(g *gin.RouterGroup, svc *services.MoveOutService, docs *services.DocumentService) *gin.RouterGroup {
	g.
		GET("/move-out/request-list", func(ctx *gin.Context) {
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
		GET("/move-out/request/:requestId", func(ctx *gin.Context) {
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
		POST("/move-out/request", func(ctx *gin.Context) {
			var body types.CreateMoveOutRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				utils.RespondValidationError(ctx, err)
				return
			}
			actor := utils.CurrentActor(ctx)
			request, err := svc.Create(actor, body)
			if err != nil {
				utils.RespondError(ctx, err)
				return
			}
			utils.RespondCreated(ctx, request)
		}).
		PUT("/move-out/request/:requestId/cancel", func(ctx *gin.Context) {
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
		POST("/move-out/request/:requestId/documents", func(ctx *gin.Context) {
			documentUploadHandler(ctx, docs, types.WORKFLOW_MOVE_OUT, true)
		}).
		GET("/move-out/request/:requestId/documents", func(ctx *gin.Context) {
			documentListHandler(ctx, docs, types.WORKFLOW_MOVE_OUT, true)
		})
	return g
}
