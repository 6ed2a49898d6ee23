package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"regexp"
	"strconv"
	"time"

	"rcm/src/boot"
	"rcm/src/common"
	"rcm/src/db"
	"rcm/src/lib"
	"rcm/src/middlewares"
	"rcm/src/services"
	"rcm/src/stor"
	"rcm/src/types"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

// futuredate accepts dates in DATE_PARSE_FORMAT that are not in the past.
var futureDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	var date string
	switch v := fl.Field().Interface().(type) {
	case string:
		date = v
	default:
		return false
	}
	datetime, err := time.Parse(types.DATE_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	today := time.Now().Truncate(24 * time.Hour)
	return !datetime.Before(today)
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		atoi, err := strconv.ParseBool(mm)
		if err == nil && atoi {
			log.Println("server is under maintenance")
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, "server is under maintenance")
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

// fcmRoutes lets a signed-in device register its push token. The notification
// consumer looks the token up by the user's UID.
func fcmRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.POST("/fcm", func(ctx *gin.Context) {
		var body struct {
			Token string `json:"token" binding:"required"`
		}
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		uid := ctx.GetString("uid")
		rd := lib.GetRedisClient()
		if rd == nil {
			ctx.Status(http.StatusInternalServerError)
			return
		}
		if err := rd.Set(ctx, uid+":fcm", body.Token, 0).Err(); err != nil {
			log.Printf("Error saving fcm token: %s\n", err.Error())
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return g
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	boot.InitDb()

	stors := stor.NewGormStors(db.GetDb())
	notifier := common.NewQueueNotifier()
	permits := common.NewQRPermits()
	reminders := common.NewLocalReminders(notifier)
	files := common.NewS3FileStore()

	moveInSvc := services.NewMoveInService(stors, notifier, permits, reminders)
	moveOutSvc := services.NewMoveOutService(stors, notifier)
	renewalSvc := services.NewRenewalService(stors, notifier)
	docSvc := services.NewDocumentService(stors, files)

	boot.InitScheduler(reminders)
	defer boot.StopScheduler()

	go boot.InitBroker()

	router := setupRouter()

	appHost := os.Getenv("APP_HOST")
	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOriginFunc = func(origin string) bool {
			match, _ := regexp.MatchString(appHost, origin)
			if match {
				return true
			}
			match, _ = regexp.MatchString("app:mobile", origin)
			return match
		}
		cc.AllowCredentials = true
		cc.AllowAllOrigins = false
		router.Use(cors.New(cc))
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("futuredate", futureDateValidatorFunc)
	}

	router = maintenanceModeMiddleware(router)

	admin := router.Group(apiPrefix + "/admin")
	admin.Use(middlewares.AuthMiddleware)
	admin.Use(middlewares.AdminMiddleware)
	{
		moveInAdminHandlers(admin, moveInSvc, docSvc)
		moveOutAdminHandlers(admin, moveOutSvc, docSvc)
		renewalAdminHandlers(admin, renewalSvc, docSvc)
	}

	mobile := apiv1Group(router)
	mobile.Use(middlewares.AuthMiddleware)
	{
		fcmRoutes(mobile)
		moveInMobileHandlers(mobile, moveInSvc, docSvc)
		moveOutMobileHandlers(mobile, moveOutSvc, docSvc)
		renewalMobileHandlers(mobile, renewalSvc, docSvc)
	}

	if err := router.Run(":9090"); err != nil {
		log.Fatalf("Failed to start server: %s", err)
	}
}
