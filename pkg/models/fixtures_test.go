package models

import (
	"fmt"
	"strings"
)

// Фикстуры провода для тестов пакета.

// commentData — data комментария t1_{id}. replies подставляется как есть
// (`""`, листинг или пустая строка — поле отсутствует).
func commentData(id, parent, body, replies string) string {
	fields := []string{
		`"id": "` + id + `"`,
		`"name": "t1_` + id + `"`,
		`"author": "spez"`,
		`"author_flair_text": null`,
		`"archived": false`,
		`"can_gild": true`,
		`"gilded": 0`,
		`"controversiality": 0`,
		`"created_utc": 1609459200.5`,
		`"distinguished": null`,
		`"edited": false`,
		`"body": "` + body + `"`,
		`"body_html": "&lt;p&gt;` + body + `&lt;/p&gt;"`,
		`"parent_id": "` + parent + `"`,
		`"link_id": "t3_post"`,
		`"saved": false`,
		`"score": 12`,
		`"stickied": false`,
		`"subreddit": "golang"`,
		`"subreddit_id": "t5_2rc7j"`,
		`"subreddit_type": "public"`,
		`"score_hidden": false`,
		`"locked": false`,
		`"collapsed": false`,
		`"likes": null`,
		`"permalink": "/r/golang/comments/post/_/` + id + `/"`,
		`"is_submitter": false`,
	}
	if replies != "" {
		fields = append(fields, `"replies": `+replies)
	}

	return "{" + strings.Join(fields, ", ") + "}"
}

func commentEnv(id, parent, body, replies string) string {
	return `{"kind": "t1", "data": ` + commentData(id, parent, body, replies) + `}`
}

func moreEnv(id, parent string, children ...string) string {
	quoted := make([]string, 0, len(children))
	for _, c := range children {
		quoted = append(quoted, `"`+c+`"`)
	}

	return fmt.Sprintf(`{"kind": "more", "data": {"id": %q, "name": "t1_%s", "parent_id": %q, "children": [%s], "count": %d, "depth": 1}}`,
		id, id, parent, strings.Join(quoted, ", "), len(children))
}

func listingEnv(children ...string) string {
	return `{"kind": "Listing", "data": {"children": [` + strings.Join(children, ", ") +
		`], "before": null, "after": null, "modhash": ""}}`
}

const accountData = `{
	"id": "1w72",
	"name": "spez",
	"comment_karma": 100,
	"link_karma": 200,
	"created_utc": 1118030400,
	"is_friend": false,
	"is_mod": true,
	"is_gold": true,
	"has_subscribed": true,
	"icon_img": "https://example.com/icon.png",
	"subreddit": {"title": "spez", "public_description": "ceo"}
}`

func accountEnv(data string) string {
	return `{"kind": "t2", "data": ` + data + `}`
}
