package repository

import (
	"devmart/internal/domain/models"
	"devmart/internal/storage"
)

func readMeta(r *rowReader) models.Meta {
	return models.Meta{
		ID:        r.str("id"),
		Slug:      r.str("slug"),
		Status:    readStatus(r),
		Featured:  r.boolean("featured"),
		CreatedAt: r.timestamp("created_at"),
		UpdatedAt: r.timestamp("updated_at"),
		CreatedBy: r.optStr("created_by"),
		UpdatedBy: r.optStr("updated_by"),
	}
}

func readStatus(r *rowReader) models.Status {
	s := models.Status(r.str("status"))
	if s != "" && !s.Valid() {
		r.fail("status", "unknown status %q", s)
	}

	return s
}

func contentRow(in models.ContentInput) storage.Row {
	return storage.Row{
		"slug":     in.Slug,
		"status":   string(in.Status),
		"featured": in.Featured,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}

	return m
}

func ServiceSpec() ContentSpec[models.Service, models.ServiceInput] {
	return ContentSpec[models.Service, models.ServiceInput]{
		Entity:        "service",
		Table:         "services",
		OrderBy:       "created_at",
		SearchColumns: []string{"title", "summary"},
		Encode: func(in models.ServiceInput) storage.Row {
			row := contentRow(in.ContentInput)
			row["title"] = in.Title
			row["summary"] = in.Summary
			row["body"] = in.Body
			row["icon_url"] = in.IconURL
			row["display_order"] = in.DisplayOrder
			return row
		},
		Decode: func(r *rowReader) models.Service {
			return models.Service{
				Meta:         readMeta(r),
				Title:        r.str("title"),
				Summary:      r.text("summary"),
				Body:         r.text("body"),
				IconURL:      r.optStr("icon_url"),
				DisplayOrder: r.integer("display_order"),
			}
		},
	}
}

func ProjectSpec() ContentSpec[models.Project, models.ProjectInput] {
	return ContentSpec[models.Project, models.ProjectInput]{
		Entity:        "project",
		Table:         "projects",
		OrderBy:       "created_at",
		SearchColumns: []string{"title", "summary"},
		ArrayColumns:  map[string]bool{"tech": true},
		Encode: func(in models.ProjectInput) storage.Row {
			row := contentRow(in.ContentInput)
			row["title"] = in.Title
			row["summary"] = in.Summary
			row["body"] = in.Body
			row["client"] = in.Client
			row["cover_url"] = in.CoverURL
			row["tech"] = nonNil(in.Tech)
			row["gallery"] = nonNil(in.Gallery)
			return row
		},
		Decode: func(r *rowReader) models.Project {
			return models.Project{
				Meta:     readMeta(r),
				Title:    r.str("title"),
				Summary:  r.text("summary"),
				Body:     r.text("body"),
				Client:   r.text("client"),
				CoverURL: r.optStr("cover_url"),
				Tech:     r.strings("tech"),
				Gallery:  r.strings("gallery"),
			}
		},
	}
}

func BlogPostSpec() ContentSpec[models.BlogPost, models.BlogPostInput] {
	return ContentSpec[models.BlogPost, models.BlogPostInput]{
		Entity:        "blog_post",
		Table:         "blog_posts",
		OrderBy:       "date",
		SearchColumns: []string{"title", "excerpt"},
		ArrayColumns:  map[string]bool{"tags": true},
		Encode: func(in models.BlogPostInput) storage.Row {
			row := contentRow(in.ContentInput)
			row["title"] = in.Title
			row["excerpt"] = in.Excerpt
			row["body"] = in.Body
			row["author"] = in.Author
			row["cover_url"] = in.CoverURL
			row["tags"] = nonNil(in.Tags)
			if in.Date != nil {
				row["date"] = in.Date.UTC()
			}
			return row
		},
		Decode: func(r *rowReader) models.BlogPost {
			return models.BlogPost{
				Meta:     readMeta(r),
				Title:    r.str("title"),
				Excerpt:  r.text("excerpt"),
				Body:     r.text("body"),
				Author:   r.text("author"),
				CoverURL: r.optStr("cover_url"),
				Tags:     r.strings("tags"),
				Date:     r.timestamp("date"),
			}
		},
	}
}

func FAQSpec() ContentSpec[models.FAQ, models.FAQInput] {
	return ContentSpec[models.FAQ, models.FAQInput]{
		Entity:        "faq",
		Table:         "faqs",
		OrderBy:       "created_at",
		SearchColumns: []string{"question", "answer"},
		Encode: func(in models.FAQInput) storage.Row {
			row := contentRow(in.ContentInput)
			row["question"] = in.Question
			row["answer"] = in.Answer
			row["category"] = in.Category
			row["display_order"] = in.DisplayOrder
			return row
		},
		Decode: func(r *rowReader) models.FAQ {
			return models.FAQ{
				Meta:         readMeta(r),
				Question:     r.str("question"),
				Answer:       r.text("answer"),
				Category:     r.text("category"),
				DisplayOrder: r.integer("display_order"),
			}
		},
	}
}

func TeamMemberSpec() ContentSpec[models.TeamMember, models.TeamMemberInput] {
	return ContentSpec[models.TeamMember, models.TeamMemberInput]{
		Entity:        "team_member",
		Table:         "team_members",
		OrderBy:       "created_at",
		SearchColumns: []string{"name", "role", "bio"},
		Encode: func(in models.TeamMemberInput) storage.Row {
			row := contentRow(in.ContentInput)
			row["name"] = in.Name
			row["role"] = in.Role
			row["bio"] = in.Bio
			row["photo_url"] = in.PhotoURL
			row["social_links"] = nonNilMap(in.SocialLinks)
			row["display_order"] = in.DisplayOrder
			return row
		},
		Decode: func(r *rowReader) models.TeamMember {
			return models.TeamMember{
				Meta:         readMeta(r),
				Name:         r.str("name"),
				Role:         r.text("role"),
				Bio:          r.text("bio"),
				PhotoURL:     r.optStr("photo_url"),
				SocialLinks:  r.stringMap("social_links"),
				DisplayOrder: r.integer("display_order"),
			}
		},
	}
}
