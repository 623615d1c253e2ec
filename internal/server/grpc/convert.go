package grpc

import (
	"github.com/ardenspace/space3-your-journey/internal/rpc"
	"github.com/ardenspace/space3-your-journey/internal/server/facility"
	"github.com/ardenspace/space3-your-journey/internal/server/models"
	"github.com/ardenspace/space3-your-journey/internal/server/scheduler"
)

func diaryToRPC(d *models.Diary) *rpc.Diary {
	return &rpc.Diary{
		ID:              d.ID,
		Title:           d.Title,
		Content:         d.Content,
		BackgroundColor: d.BackgroundColor,
		NotebookDesign:  d.NotebookDesign,
		FontFamily:      d.FontFamily,
		FontSize:        d.FontSize,
		FontColor:       d.FontColor,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		IsTimeCapsule:   d.IsTimeCapsule,
		TimeCapsuleID:   d.TimeCapsuleID,
	}
}

func diaryFromRPC(d *rpc.Diary) *models.Diary {
	return &models.Diary{
		Title:           d.Title,
		Content:         d.Content,
		BackgroundColor: d.BackgroundColor,
		NotebookDesign:  d.NotebookDesign,
		FontFamily:      d.FontFamily,
		FontSize:        d.FontSize,
		FontColor:       d.FontColor,
	}
}

func patchFromRPC(req *rpc.UpdateDiaryRequest) models.DiaryPatch {
	return models.DiaryPatch{
		Title:           req.Title,
		Content:         req.Content,
		BackgroundColor: req.BackgroundColor,
		NotebookDesign:  req.NotebookDesign,
		FontFamily:      req.FontFamily,
		FontSize:        req.FontSize,
		FontColor:       req.FontColor,
	}
}

func capsuleToRPC(tc *models.TimeCapsule) *rpc.TimeCapsule {
	return &rpc.TimeCapsule{
		ID:                    tc.ID,
		DiaryID:               tc.DiaryID,
		OpenDate:              tc.OpenDate,
		IsOpened:              tc.IsOpened,
		NotificationScheduled: tc.NotificationScheduled,
		State:                 string(tc.State()),
		CreatedAt:             tc.CreatedAt,
	}
}

func capsulesToRPC(list []*models.TimeCapsule) []*rpc.TimeCapsule {
	out := make([]*rpc.TimeCapsule, 0, len(list))
	for _, tc := range list {
		out = append(out, capsuleToRPC(tc))
	}
	return out
}

func requestToRPC(req facility.Request) *rpc.Notification {
	return &rpc.Notification{
		ID:        req.ID,
		Title:     req.Content.Title,
		Body:      req.Content.Body,
		Type:      req.Content.Data[scheduler.DataType],
		CapsuleID: req.Content.Data[scheduler.DataCapsuleID],
		Date:      req.Trigger.Date,
	}
}

func designToRPC(d *models.NotebookDesign) *rpc.Design {
	return &rpc.Design{
		ID:           d.ID,
		Name:         d.Name,
		Category:     d.Category,
		ImageURL:     d.ImageURL,
		ThumbnailURL: d.ThumbnailURL,
		CreatedAt:    d.CreatedAt,
	}
}
