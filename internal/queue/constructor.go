package queue

import (
	"github.com/postpilothq/postpilot/internal/repository"
	"github.com/postpilothq/postpilot/internal/service"
)

type Queue struct {
	sp repository.ScheduledPostRepository
	ac repository.SocialAccountRepository
	ph repository.PostingHistoryRepository
	yt service.YoutubeService
	tt service.TiktokService
	ig service.InstagramService
}

func NewQueue(
	sp repository.ScheduledPostRepository,
	ac repository.SocialAccountRepository,
	ph repository.PostingHistoryRepository,
	yt service.YoutubeService,
	tt service.TiktokService,
	ig service.InstagramService) *Queue {
	return &Queue{
		sp: sp,
		ac: ac,
		ph: ph,
		yt: yt,
		tt: tt,
		ig: ig,
	}
}

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	PostID int64 `json:"post_id"`
}
