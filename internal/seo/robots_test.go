package seo

import (
	"strings"
	"testing"
)

func TestRobotsBuilder_Default(t *testing.T) {
	out := GenerateRobots("https://happenlist.example/", false, "")

	for _, want := range []string{
		"User-agent: *\n",
		"Disallow: /admin\n",
		"Disallow: /api/drafts\n",
		"Allow: /\n",
		"Sitemap: https://happenlist.example/sitemap.xml\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("robots.txt missing %q:\n%s", want, out)
		}
	}
}

func TestRobotsBuilder_DisallowAll(t *testing.T) {
	out := GenerateRobots("https://staging.happenlist.example", true, "")

	if !strings.Contains(out, "Disallow: /\n") {
		t.Error("staging robots.txt must block all crawlers")
	}
	if strings.Contains(out, "Sitemap:") {
		t.Error("staging robots.txt must not advertise a sitemap")
	}
}

func TestRobotsBuilder_ExtraRulesAndPaths(t *testing.T) {
	b := NewRobotsBuilder(RobotsConfig{
		SiteURL:       "https://happenlist.example",
		DisallowPaths: []string{"/internal"},
		ExtraRules:    "Crawl-delay: 10",
	})
	out := b.Build()

	if !strings.Contains(out, "Disallow: /internal\n") {
		t.Error("custom disallow path missing")
	}
	if !strings.Contains(out, "Crawl-delay: 10\n") {
		t.Error("extra rules missing or not newline-terminated")
	}
}
