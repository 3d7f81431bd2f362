package ytmeta

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/net/html"
)

func (r Resolver) getFromPage(ctx context.Context, videoId string) (VideoData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.watchUrl+"/"+videoId, nil)
	if err != nil {
		return VideoData{}, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return VideoData{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return VideoData{}, ErrVideoNotFound
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return VideoData{}, err
	}

	return VideoData{
		Title:        getTitle(doc),
		Author:       getLinkContent(doc),
		ThumbnailUrl: fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", videoId),
	}, nil
}

func getTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
		return n.FirstChild.Data
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := getTitle(c); title != "" {
			return title
		}
	}
	return ""
}

func getLinkContent(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "link" {
		for _, attr := range n.Attr {
			if attr.Key == "itemprop" && attr.Val == "name" {
				for _, attr := range n.Attr {
					if attr.Key == "content" {
						return attr.Val
					}
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if content := getLinkContent(c); content != "" {
			return content
		}
	}
	return ""
}
