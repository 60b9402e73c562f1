package router

import (
	"net/http"

	"Khobor_Live/internal/handler"
	"Khobor_Live/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRouter(commentHandler handler.CommentHandler, voteHandler handler.VoteHandler, moderationHandler handler.ModerationHandler, jwtSecret []byte) *gin.Engine {
	r := gin.Default()
	// 路径存在但方法不对时返回 405，而不是 404
	r.HandleMethodNotAllowed = true
	r.NoMethod(handler.MethodNotAllowed)
	r.NoRoute(handler.NotFound)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	apiV1 := r.Group("/api/v1")
	apiV1.Use(middleware.Identify(jwtSecret))
	{
		comments := apiV1.Group("/comments")
		{
			comments.GET("", commentHandler.GetComments)
			comments.POST("", commentHandler.CreateComment)
			comments.POST("/replies", commentHandler.CreateReply)
			comments.POST("/votes", voteHandler.CastVote)
		}

		admin := apiV1.Group("/admin")
		admin.Use(middleware.AdminRequired())
		{
			admin.DELETE("/comments/:id", moderationHandler.DeleteComment)
			admin.PUT("/comments/:id/pin", moderationHandler.PinComment)
		}
	}

	return r
}
