package main

import (
	"log"
	"net/http"

	"rcm/src/services"
	"rcm/src/types"
	"rcm/src/utils"

	"github.com/gin-gonic/gin"
)

func renewalAdminHandlers(g *gin.RouterGroup, svc *services.RenewalService, docs *services.DocumentService) *gin.RouterGroup {
	g.
		GET("/renewal/request-list", func(ctx *gin.Context) {
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
		GET("/renewal/request/:requestId", func(ctx *gin.Context) {
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
		GET("/renewal/request/:requestId/logs", func(ctx *gin.Context) {
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
		POST("/renewal/request", func(ctx *gin.Context) {
			var body types.CreateRenewalRequestBody
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
		PUT("/renewal/request/:requestId", renewalUpdateHandler(svc, false)).
		PUT("/renewal/request/:requestId/approve", func(ctx *gin.Context) {
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
		PUT("/renewal/request/:requestId/rfi", func(ctx *gin.Context) {
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
		PUT("/renewal/request/:requestId/cancel", func(ctx *gin.Context) {
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
		POST("/renewal/request/:requestId/documents", func(ctx *gin.Context) {
			documentUploadHandler(ctx, docs, types.WORKFLOW_RENEWAL, false)
		}).
		GET("/renewal/request/:requestId/documents", func(ctx *gin.Context) {
			documentListHandler(ctx, docs, types.WORKFLOW_RENEWAL, false)
		})
	return g
}

func renewalMobileHandlers(g *gin.RouterGroup, svc *services.RenewalService, docs *services.DocumentService) *gin.RouterGroup {
	g.
		GET("/renewal/request-list", func(ctx *gin.Context) {
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
		GET("/renewal/request/:requestId", func(ctx *gin.Context) {
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
		POST("/renewal/request", func(ctx *gin.Context) {
			var body types.CreateRenewalRequestBody
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
		PUT("/renewal/request/:requestId", renewalUpdateHandler(svc, true)).
		PUT("/renewal/request/:requestId/cancel", func(ctx *gin.Context) {
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
		POST("/renewal/request/:requestId/documents", func(ctx *gin.Context) {
			documentUploadHandler(ctx, docs, types.WORKFLOW_RENEWAL, true)
		}).
		GET("/renewal/request/:requestId/documents", func(ctx *gin.Context) {
			documentListHandler(ctx, docs, types.WORKFLOW_RENEWAL, true)
		})
	return g
}

func renewalUpdateHandler(svc *services.RenewalService, forUser bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			utils.RespondValidationError(ctx, err)
			return
		}
		var body types.UpdateRenewalRequestBody
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
