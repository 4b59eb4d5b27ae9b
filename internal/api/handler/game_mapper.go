package handler

import (
	"github.com/pyxolotl/marketplace-api/internal/core/ports"
)

func gameSelfLinks(id string) gameLinks {
	return gameLinks{
		Self:    "/api/juegos/" + id,
		Reviews: "/api/juegos/" + id + "/resenas",
	}
}

func toGameResponse(s *ports.GameSummary) gameResponse {
	g := s.Game
	return gameResponse{
		ID:              g.ID,
		Title:           g.Title,
		Description:     g.Description,
		Genre:           g.Genre,
		Price:           g.Price,
		Requirements:    g.Requirements,
		CoverRef:        g.CoverRef,
		ScreenshotRefs:  g.ScreenshotRefs,
		TrailerRef:      g.TrailerRef,
		DownloadKind:    string(g.DownloadKind),
		SizeMB:          g.SizeMB,
		Status:          string(g.Status),
		DeveloperID:     g.DeveloperID,
		RejectionReason: g.RejectionReason,
		Rating:          ratingResponse{Average: s.AvgRating, Count: s.ReviewCount},
		CreatedAt:       g.CreatedAt,
		Links:           gameSelfLinks(g.ID),
	}
}

func toGameSummaryResponse(s ports.GameSummary) gameSummaryResponse {
	g := s.Game
	return gameSummaryResponse{
		ID:              g.ID,
		Title:           g.Title,
		Genre:           g.Genre,
		Price:           g.Price,
		CoverRef:        g.CoverRef,
		Status:          string(g.Status),
		DeveloperID:     g.DeveloperID,
		RejectionReason: g.RejectionReason,
		Rating:          ratingResponse{Average: s.AvgRating, Count: s.ReviewCount},
		CreatedAt:       g.CreatedAt,
		Links:           gameSelfLinks(g.ID),
	}
}

func toListGamesResponse(list *ports.GameList) listGamesResponse {
	items := make([]gameSummaryResponse, 0, len(list.Items))
	for _, s := range list.Items {
		items = append(items, toGameSummaryResponse(s))
	}
	return listGamesResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      list.Total,
			Page:       list.Page,
			Limit:      list.Limit,
			TotalPages: list.TotalPages,
		},
	}
}
