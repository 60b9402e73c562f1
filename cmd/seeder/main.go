// cmd/seeder/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"Khobor_Live/internal/config"
	"Khobor_Live/internal/model"
	"Khobor_Live/internal/repository"
	"Khobor_Live/pkg/token"

	"github.com/go-faker/faker/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	userCount    = 50
	articleCount = 20
	commentCount = 300
	replyCount   = 400
	voteCount    = 2000
)

func main() {
	fmt.Println("🚀 开始填充测试数据...")
	cfg := config.Load()
	ctx := context.Background()

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("❌ 无法连接到数据库: %v", err)
	}
	fmt.Println("✅ 数据库连接成功!")

	// 注意：这将删除所有数据！
	fmt.Println("🧹 正在清理旧数据...")
	if err := db.Migrator().DropTable(&model.Vote{}, &model.Comment{}, &model.Article{}, &model.User{}); err != nil {
		log.Fatalf("❌ 删除旧表失败: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Article{}, &model.Comment{}, &model.Vote{}); err != nil {
		log.Fatalf("❌ 数据库迁移失败: %v", err)
	}
	fmt.Println("✅ 数据库迁移成功!")

	// 所有用户的密码都是 "password"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("❌ 密码加密失败: %v", err)
	}

	fmt.Println("👥 正在创建用户...")
	userRepo := repository.NewUserRepository(db)
	admin := &model.User{Username: "editor", Email: "editor@khobor.test", Password: string(hashedPassword), Role: model.RoleAdmin}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatalf("❌ 管理员创建失败: %v", err)
	}
	users := []*model.User{admin}
	for len(users) < userCount {
		user := &model.User{
			Username: faker.Username(),
			Email:    faker.Email(),
			Password: string(hashedPassword),
			Role:     model.RoleUser,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			// faker 偶尔会生成重复用户名，跳过即可
			if repository.IsDuplicateKey(err) {
				continue
			}
			log.Fatalf("❌ 用户创建失败: %v", err)
		}
		users = append(users, user)
	}
	fmt.Printf("✅ 成功创建 %d 个用户!\n", len(users))

	fmt.Println("📰 正在创建文章...")
	articleRepo := repository.NewArticleRepository(db, nil)
	articles := make([]*model.Article, 0, articleCount)
	for i := 0; i < articleCount; i++ {
		article := &model.Article{
			Slug:    fmt.Sprintf("article-%d-%s", i+1, faker.Word()),
			TitleBn: faker.Sentence(),
			TitleEn: faker.Sentence(),
		}
		if err := articleRepo.Create(ctx, article); err != nil {
			log.Fatalf("❌ 文章创建失败: %v", err)
		}
		articles = append(articles, article)
	}
	fmt.Printf("✅ 成功创建 %d 篇文章!\n", len(articles))

	fmt.Println("💬 正在创建评论...")
	commentRepo := repository.NewCommentRepository(db)
	topLevel := make([]*model.Comment, 0, commentCount)
	for i := 0; i < commentCount; i++ {
		c := &model.Comment{ArticleID: articles[rand.Intn(len(articles))].ID, Text: faker.Paragraph()}
		// 一半游客，一半登录用户
		if rand.Intn(2) == 0 {
			u := users[rand.Intn(len(users))]
			c.UserID = &u.ID
			c.UserName = u.Email
		} else {
			c.UserName = faker.FirstName()
		}
		if err := commentRepo.Create(ctx, c); err != nil {
			log.Fatalf("❌ 评论创建失败: %v", err)
		}
		topLevel = append(topLevel, c)
	}
	for i := 0; i < 5 && i < len(topLevel); i++ {
		if err := commentRepo.SetPin(ctx, topLevel[i].ID, true, i); err != nil {
			log.Fatalf("❌ 置顶失败: %v", err)
		}
	}

	allIDs := make([]uint64, 0, commentCount+replyCount)
	for _, c := range topLevel {
		allIDs = append(allIDs, c.ID)
	}
	for i := 0; i < replyCount; i++ {
		parent := topLevel[rand.Intn(len(topLevel))]
		u := users[rand.Intn(len(users))]
		reply := &model.Comment{
			ArticleID: parent.ArticleID,
			ParentID:  &parent.ID,
			UserID:    &u.ID,
			UserName:  u.Email,
			Text:      faker.Sentence(),
		}
		if err := commentRepo.Create(ctx, reply); err != nil {
			log.Fatalf("❌ 回复创建失败: %v", err)
		}
		allIDs = append(allIDs, reply.ID)
	}
	fmt.Printf("✅ 成功创建 %d 条评论和 %d 条回复!\n", len(topLevel), replyCount)

	fmt.Println("👍 正在创建随机投票...")
	for i := 0; i < voteCount; i++ {
		vote := model.Vote{
			CommentID: allIDs[rand.Intn(len(allIDs))],
			VoterKey:  "ip:" + faker.IPv4(),
			VoteType:  model.Upvote,
		}
		if rand.Intn(4) == 0 {
			vote.VoteType = model.Downvote
		}
		// 唯一键冲突时什么都不做
		db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "comment_id"}, {Name: "voter_key"}},
			DoNothing: true,
		}).Create(&vote)
	}
	fmt.Printf("✅ 成功创建(或尝试创建) %d 张投票!\n", voteCount)

	if cfg.JWTSecretKey != "" {
		adminToken, err := token.Issue([]byte(cfg.JWTSecretKey), token.Claims{UserID: admin.ID, Email: admin.Email, Role: admin.Role}, 24*time.Hour)
		if err != nil {
			log.Fatalf("❌ 令牌签发失败: %v", err)
		}
		fmt.Printf("🔑 管理员令牌(24h): %s\n", adminToken)
	}

	fmt.Println("🎉🎉🎉 所有测试数据填充完毕! 🎉🎉🎉")
}
