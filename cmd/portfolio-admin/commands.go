package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/artwork"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/auth"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/contact"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/inquiry"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/upload"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
)

func printJSON(value any) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}

// friendly collapses a typed error into its user-facing message.
func friendly(err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		return fmt.Errorf("%s", pkgerrors.UserMessage(typed))
	}
	return err
}

func cmdLogin(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	user, err := wired.auth.Login(ctx, auth.LoginInput{Email: *email, Password: *password})
	if err != nil {
		return friendly(err)
	}
	fmt.Printf("signed in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func cmdLogout(ctx context.Context, wired *app) error {
	if err := wired.auth.Logout(ctx); err != nil {
		return friendly(err)
	}
	fmt.Println("signed out")
	return nil
}

func cmdWhoami(ctx context.Context, wired *app) error {
	user, err := wired.auth.Me(ctx)
	if err != nil {
		return friendly(err)
	}
	return printJSON(user)
}

func cmdProfile(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	phone := fs.String("phone", "", "contact phone")
	bio := fs.String("bio", "", "artist bio")
	fs.Parse(args)

	user, err := wired.auth.UpdateProfile(ctx, auth.UpdateProfileInput{
		Name:  *name,
		Email: *email,
		Phone: *phone,
		Bio:   *bio,
	})
	if err != nil {
		return friendly(err)
	}
	return printJSON(user)
}

func artworkFilterFlags(fs *flag.FlagSet) (func() artwork.ListFilter, *string) {
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	category := fs.String("category", "", "portraits|landscapes|still-life|sketches")
	featured := fs.String("featured", "", "true|false")
	sold := fs.String("sold", "", "true|false")
	search := fs.String("search", "", "free-text search")

	build := func() artwork.ListFilter {
		filter := artwork.ListFilter{
			Page:     *page,
			Limit:    *limit,
			Category: artwork.Category(*category),
		}
		if *featured != "" {
			value := *featured == "true"
			filter.Featured = &value
		}
		if *sold != "" {
			value := *sold == "true"
			filter.Sold = &value
		}
		return filter
	}
	return build, search
}

func cmdArtworkList(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("artwork-list", flag.ExitOnError)
	buildFilter, search := artworkFilterFlags(fs)
	fs.Parse(args)

	if *search != "" {
		found, err := wired.artworks.Search(ctx, *search)
		if err != nil {
			return friendly(err)
		}
		return printJSON(found)
	}
	result, err := wired.artworks.List(ctx, buildFilter())
	if err != nil {
		return friendly(err)
	}
	return printJSON(result)
}

func cmdArtworkGet(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("artwork-get", flag.ExitOnError)
	id := fs.String("id", "", "artwork id")
	fs.Parse(args)

	record, err := wired.artworks.Get(ctx, *id)
	if err != nil {
		return friendly(err)
	}
	return printJSON(record)
}

func cmdArtworkCreate(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("artwork-create", flag.ExitOnError)
	title := fs.String("title", "", "artwork title")
	description := fs.String("description", "", "description")
	category := fs.String("category", "", "portraits|landscapes|still-life|sketches")
	medium := fs.String("medium", "", "medium, e.g. oil on canvas")
	dimensions := fs.String("dimensions", "", "physical dimensions")
	year := fs.Int("year", 0, "year created")
	price := fs.String("price", "", "price, e.g. 450.50")
	tags := fs.String("tags", "", "comma-separated tags")
	featured := fs.Bool("featured", false, "feature on the home page")
	images := fs.String("images", "", "comma-separated image file paths")
	fs.Parse(args)

	input := artwork.CreateInput{
		Title:       *title,
		Description: *description,
		Category:    artwork.Category(*category),
		Medium:      *medium,
		Dimensions:  *dimensions,
		Year:        *year,
		Featured:    *featured,
	}
	if *price != "" {
		parsed, err := decimal.NewFromString(*price)
		if err != nil {
			return fmt.Errorf("invalid price %q", *price)
		}
		input.Price = &parsed
	}
	if *tags != "" {
		input.Tags = strings.Split(*tags, ",")
	}
	files, err := readImageFiles(*images)
	if err != nil {
		return err
	}
	input.Images = files

	record, err := wired.artworks.Create(ctx, input)
	if err != nil {
		return friendly(err)
	}
	return printJSON(record)
}

func readImageFiles(list string) ([]upload.File, error) {
	if list == "" {
		return nil, nil
	}
	var files []upload.File
	for _, path := range strings.Split(list, ",") {
		path = strings.TrimSpace(path)
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", path, err)
		}
		files = append(files, upload.File{Name: filepath.Base(path), Content: content})
	}
	return files, nil
}

func cmdArtworkDelete(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("artwork-delete", flag.ExitOnError)
	id := fs.String("id", "", "artwork id")
	fs.Parse(args)

	if err := wired.artworks.Delete(ctx, *id); err != nil {
		return friendly(err)
	}
	fmt.Println("deleted")
	return nil
}

// cmdArtworkFeature toggles the featured flag by re-submitting the record
// the server returned; the update endpoint takes the full record.
func cmdArtworkFeature(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("artwork-feature", flag.ExitOnError)
	id := fs.String("id", "", "artwork id")
	off := fs.Bool("off", false, "unfeature instead")
	fs.Parse(args)

	current, err := wired.artworks.Get(ctx, *id)
	if err != nil {
		return friendly(err)
	}
	record, err := wired.artworks.Update(ctx, *id, artwork.UpdateInput{
		Title:           current.Title,
		Description:     current.Description,
		Category:        current.Category,
		Medium:          current.Medium,
		Dimensions:      current.Dimensions,
		Year:            current.Year,
		Price:           current.Price,
		Tags:            current.Tags,
		Featured:        !*off,
		Sold:            current.Sold,
		PrintsAvailable: current.PrintsAvailable,
		PrintOptions:    current.PrintOptions,
	})
	if err != nil {
		return friendly(err)
	}
	return printJSON(record)
}

func cmdArtworkPrimary(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("artwork-primary", flag.ExitOnError)
	id := fs.String("id", "", "artwork id")
	publicID := fs.String("public-id", "", "image public id")
	fs.Parse(args)

	record, err := wired.artworks.SetPrimaryImage(ctx, *id, *publicID)
	if err != nil {
		return friendly(err)
	}
	return printJSON(record)
}

func cmdContactList(ctx context.Context, wired *app) error {
	messages, err := wired.contacts.List(ctx)
	if err != nil {
		return friendly(err)
	}
	return printJSON(messages)
}

func cmdContactUpdate(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("contact-update", flag.ExitOnError)
	id := fs.String("id", "", "contact id")
	status := fs.String("status", "", "pending|read|closed")
	response := fs.String("response", "", "reply text")
	fs.Parse(args)

	record, err := wired.contacts.Update(ctx, *id, contact.UpdateInput{
		Status:   contact.Status(*status),
		Response: *response,
	})
	if err != nil {
		return friendly(err)
	}
	return printJSON(record)
}

func cmdInquiryList(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("inquiry-list", flag.ExitOnError)
	status := fs.String("status", "", "pending|contacted|closed")
	priority := fs.String("priority", "", "low|medium|high")
	archived := fs.String("archived", "", "true|false")
	sort := fs.String("sort", "", "newest|oldest|priority")
	fs.Parse(args)

	filter := inquiry.ListFilter{
		Status:   inquiry.Status(*status),
		Priority: inquiry.Priority(*priority),
		Sort:     *sort,
	}
	if *archived != "" {
		value := *archived == "true"
		filter.Archived = &value
	}
	records, err := wired.inquiries.List(ctx, filter)
	if err != nil {
		return friendly(err)
	}
	return printJSON(records)
}

func cmdInquiryStatus(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("inquiry-status", flag.ExitOnError)
	id := fs.String("id", "", "inquiry id")
	status := fs.String("status", "", "pending|contacted|closed")
	fs.Parse(args)

	record, err := wired.inquiries.UpdateStatus(ctx, *id, inquiry.Status(*status))
	if err != nil {
		return friendly(err)
	}
	return printJSON(record)
}

func cmdInquiryNote(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("inquiry-note", flag.ExitOnError)
	id := fs.String("id", "", "inquiry id")
	note := fs.String("note", "", "admin note text")
	fs.Parse(args)

	record, err := wired.inquiries.AddNote(ctx, *id, *note)
	if err != nil {
		return friendly(err)
	}
	return printJSON(record)
}

func cmdInquiryBulk(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("inquiry-bulk", flag.ExitOnError)
	action := fs.String("action", "", "delete|update-status|archive")
	ids := fs.String("ids", "", "comma-separated inquiry ids")
	status := fs.String("status", "", "target status for update-status")
	fs.Parse(args)

	input := inquiry.BulkActionInput{
		Action: inquiry.BulkActionName(*action),
		Status: inquiry.Status(*status),
	}
	if *ids != "" {
		input.IDs = strings.Split(*ids, ",")
	}
	result, err := wired.inquiries.BulkAction(ctx, input)
	if err != nil {
		return friendly(err)
	}
	fmt.Printf("affected %d inquiries\n", result.Affected)
	return nil
}

func cmdInquiryStats(ctx context.Context, wired *app) error {
	stats, err := wired.inquiries.Stats(ctx)
	if err != nil {
		return friendly(err)
	}
	return printJSON(stats)
}

func cmdInquiryExport(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("inquiry-export", flag.ExitOnError)
	out := fs.String("out", "", "output path (defaults to the dated filename)")
	fs.Parse(args)

	raw, err := wired.inquiries.ExportCSV(ctx)
	if err != nil {
		return friendly(err)
	}
	path := *out
	if path == "" {
		path = inquiry.ExportFilename(time.Now())
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func cmdUploadSingle(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("upload-single", flag.ExitOnError)
	path := fs.String("file", "", "image file path")
	fs.Parse(args)

	files, err := readImageFiles(*path)
	if err != nil {
		return err
	}
	if len(files) != 1 {
		return fmt.Errorf("upload-single takes exactly one file")
	}
	image, err := wired.uploads.UploadSingle(ctx, files[0])
	if err != nil {
		return friendly(err)
	}
	return printJSON(image)
}

func cmdUploadInfo(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("upload-info", flag.ExitOnError)
	publicID := fs.String("public-id", "", "image public id")
	fs.Parse(args)

	info, err := wired.uploads.ImageInfo(ctx, *publicID)
	if err != nil {
		return friendly(err)
	}
	return printJSON(info)
}

func cmdUploadDelete(ctx context.Context, wired *app, args []string) error {
	fs := flag.NewFlagSet("upload-delete", flag.ExitOnError)
	publicID := fs.String("public-id", "", "image public id")
	fs.Parse(args)

	if err := wired.uploads.Delete(ctx, *publicID); err != nil {
		return friendly(err)
	}
	fmt.Println("deleted")
	return nil
}
