package main

import (
	"log"

	"wapl/config"
	"wapl/controllers/authControllers"
	"wapl/controllers/certificateControllers"
	"wapl/controllers/publicControllers"
	"wapl/controllers/studentControllers"
	"wapl/database"
	"wapl/renderer"
	authRoutes "wapl/routers/authRoutes"
	certificateRoutes "wapl/routers/certificateRoutes"
	publicRoutes "wapl/routers/publicRoutes"
	studentRoutes "wapl/routers/studentRoutes"
	"wapl/storage"
	"wapl/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	db := database.Database.Db

	store, err := storage.New(config.AppConfig)
	if err != nil {
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}

	rend := renderer.New(config.AppConfig.CertTemplatePath, config.AppConfig.FontDir)

	authController := authControllers.NewAuthController(db)
	certificateController := certificateControllers.NewCertificateController(db, store, rend, config.AppConfig.AppDomain)
	studentController := studentControllers.NewStudentController(db, store)
	verifyController := publicControllers.NewVerifyController(db)

	// Daily expiry-reminder job
	scheduler := utils.InitializeCertificateScheduler(db)
	defer scheduler.Stop()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Generated artifacts are only directly servable on local storage
	if config.AppConfig.StorageBackend == "local" {
		app.Static("/uploads", "./"+config.AppConfig.UploadDir)
	}

	authRoutes.SetupAuthRoutes(app, authController)
	certificateRoutes.SetupCertificateRoutes(app, certificateController)
	studentRoutes.SetupStudentRoutes(app, studentController)
	publicRoutes.SetupPublicRoutes(app, verifyController)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
