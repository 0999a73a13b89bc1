package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"fitlink/config"
	"fitlink/database"
	"fitlink/handlers"
	"fitlink/middleware"
	"fitlink/websocket"
)

func main() {
	config.Load()

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	if err := handlers.Init(); err != nil {
		log.Fatalf("Failed to initialize handlers: %v", err)
	}

	websocket.InitHub()

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
		auth.POST("/refresh", middleware.AuthMiddleware(), handlers.RefreshToken)
	}

	users := r.Group("/api/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/search", handlers.SearchUsers)
	}

	profiles := r.Group("/api/profiles")
	profiles.Use(middleware.AuthMiddleware())
	{
		profiles.GET("/me", handlers.GetCurrentProfile)
		profiles.PUT("/me", handlers.UpdateCurrentProfile)
	}

	friends := r.Group("/api/friends")
	friends.Use(middleware.AuthMiddleware())
	{
		friends.GET("", handlers.GetFriends)
		friends.GET("/requests", handlers.GetFriendRequests)
		friends.POST("/request", handlers.SendFriendRequest)
		friends.POST("/accept/:id", handlers.AcceptFriendRequest)
		friends.POST("/decline/:id", handlers.DeclineFriendRequest)
		friends.DELETE("/:friend_id", handlers.RemoveFriend)
		friends.GET("/:friend_id/workouts", handlers.GetFriendWorkoutHistory)
	}

	workoutRoutes := r.Group("/api/workouts")
	workoutRoutes.Use(middleware.AuthMiddleware())
	{
		workoutRoutes.POST("/generate", handlers.GenerateWorkout)
		workoutRoutes.POST("", handlers.SaveWorkout)
		workoutRoutes.GET("", handlers.GetWorkoutHistory)
	}

	r.GET("/ws", websocket.HandleWebSocket)

	log.Printf("Server starting on %s", config.Cfg.ServerAddr)
	if err := r.Run(config.Cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
