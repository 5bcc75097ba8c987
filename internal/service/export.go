package service

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// ExportRow 导出用的扁平行：短链全部字段加当前点击数
type ExportRow struct {
	ID                uint       `json:"id"`
	Domain            string     `json:"domain"`
	Slug              string     `json:"slug"`
	TargetURL         string     `json:"targetUrl"`
	ExpireType        string     `json:"expireType"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
	MaxClicks         *int64     `json:"maxClicks,omitempty"`
	PasswordProtected bool       `json:"passwordProtected"`
	CreatedAt         time.Time  `json:"createdAt"`
	Clicks            int64      `json:"clicks"`
}

// ExportLinks 导出全部短链及其当前点击数
func (s *LinkService) ExportLinks() ([]ExportRow, error) {
	links, err := s.links.All()
	if err != nil {
		return nil, err
	}

	clicks, err := s.analytics.ClicksByLink()
	if err != nil {
		return nil, err
	}

	rows := make([]ExportRow, 0, len(links))
	for _, link := range links {
		rows = append(rows, ExportRow{
			ID:                link.ID,
			Domain:            link.Domain,
			Slug:              link.Slug,
			TargetURL:         link.TargetURL,
			ExpireType:        string(link.ExpireType),
			ExpiresAt:         link.ExpiresAt,
			MaxClicks:         link.MaxClicks,
			PasswordProtected: link.Password != "",
			CreatedAt:         link.CreatedAt,
			Clicks:            clicks[link.ID],
		})
	}
	return rows, nil
}

// WriteExportCSV 把导出行写成 CSV
func WriteExportCSV(w io.Writer, rows []ExportRow) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "domain", "slug", "target_url", "expire_type", "expires_at", "max_clicks", "password_protected", "created_at", "clicks"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		expiresAt := ""
		if row.ExpiresAt != nil {
			expiresAt = row.ExpiresAt.Format(time.RFC3339)
		}
		maxClicks := ""
		if row.MaxClicks != nil {
			maxClicks = strconv.FormatInt(*row.MaxClicks, 10)
		}
		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.Domain,
			row.Slug,
			row.TargetURL,
			row.ExpireType,
			expiresAt,
			maxClicks,
			strconv.FormatBool(row.PasswordProtected),
			row.CreatedAt.Format(time.RFC3339),
			strconv.FormatInt(row.Clicks, 10),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
