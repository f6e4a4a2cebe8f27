package content

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/vango-dev/sitekit/pkg/link"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// validatorInstance returns the shared validator with the content tags registered.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})

		// href accepts what link.Resolver resolves: absolute URLs, fragments,
		// queries and site paths, relative ones included.
		_ = v.RegisterValidation("href", func(fl validator.FieldLevel) bool {
			return validHref(fl.Field().String())
		})

		validateInst = v
	})
	return validateInst
}

func validHref(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	if strings.HasPrefix(s, "#") || strings.HasPrefix(s, "?") {
		return true
	}
	if link.IsExternal(s) {
		u, err := url.Parse(s)
		return err == nil && (u.Host != "" || u.Opaque != "")
	}
	p := s
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	_, err := link.CanonicalizePath(p)
	return err == nil
}

// Validate checks a page against the content rules.
func Validate(p *Page) error {
	return convertValidationError(validatorInstance().Struct(p))
}

// ValidateBlock checks a single block.
func ValidateBlock(b Block) error {
	return convertValidationError(validatorInstance().Struct(b))
}

func convertValidationError(err error) error {
	if err == nil {
		return nil
	}
	ves, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, fmt.Sprintf("%s failed validation for tag '%s'", fieldName(fe), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// fieldName drops the root struct name from the namespace: "Page.hero.headline" → "hero.headline".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
