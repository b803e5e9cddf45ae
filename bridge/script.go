package bridge

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Script renders the browser-side payload for this directive as an inline
// <script> body. The script must be embedded in the host page itself so it
// executes with the page's origin; running it inside a sandboxed frame
// writes to storage the page can never read back.
func (d Directive) Script(cfg Config, scopeID string) string {
	key := cfg.StorageKey
	if key == "" {
		key = DefaultStorageKey
	}

	switch d.Mode {
	case ModeWrite:
		return writeScript(cfg, key, d)
	case ModeClear:
		return clearScript(cfg, key)
	default:
		return readScript(cfg, key, scopeID)
	}
}

// jsString encodes a Go string as a JS string literal. Values originate
// server-side, but the encoding still has to be injection-proof.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}

func cookieAttributes(cfg Config, maxAge int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "; path=/; max-age=%d", maxAge)
	switch cfg.SameSitePolicy {
	case http.SameSiteStrictMode:
		b.WriteString("; SameSite=Strict")
	case http.SameSiteNoneMode:
		b.WriteString("; SameSite=None")
	default:
		b.WriteString("; SameSite=Lax")
	}
	if cfg.CookieSecure || cfg.SameSitePolicy == http.SameSiteNoneMode {
		b.WriteString("; Secure")
	}
	return b.String()
}

// Every tier operation sits in its own try/catch: privacy modes and storage
// quotas fail one tier without taking the others down with it.
func writeScript(cfg Config, key string, d Directive) string {
	ttl := cfg.CookieTTL
	if ttl <= 0 {
		ttl = DefaultCookieTTL
	}

	var b strings.Builder
	b.WriteString("(function(){\n")
	fmt.Fprintf(&b, "var k=%s,v=%s;\n", jsString(key), jsString(d.SessionID))
	b.WriteString("try{sessionStorage.setItem(k,v);}catch(e){}\n")
	if d.Persist {
		b.WriteString("try{localStorage.setItem(k,v);}catch(e){}\n")
		fmt.Fprintf(&b, "try{document.cookie=k+\"=\"+encodeURIComponent(v)+%s;}catch(e){}\n",
			jsString(cookieAttributes(cfg, int(ttl.Seconds()))))
	}
	b.WriteString("})();")
	return b.String()
}

func clearScript(cfg Config, key string) string {
	var b strings.Builder
	b.WriteString("(function(){\n")
	fmt.Fprintf(&b, "var k=%s;\n", jsString(key))
	b.WriteString("try{sessionStorage.removeItem(k);}catch(e){}\n")
	b.WriteString("try{localStorage.removeItem(k);}catch(e){}\n")
	fmt.Fprintf(&b, "try{document.cookie=k+\"=\"+%s;}catch(e){}\n",
		jsString(cookieAttributes(cfg, 0)))
	b.WriteString("})();")
	return b.String()
}

// The report always travels in a POST body. Putting the session identifier
// in a query string would leak it into history, logs, and shareable links.
func readScript(cfg Config, key, scopeID string) string {
	path := cfg.CallbackPath
	if path == "" {
		path = DefaultCallbackPath
	}

	var b strings.Builder
	b.WriteString("(function(){\n")
	fmt.Fprintf(&b, "var k=%s,v=null;\n", jsString(key))
	b.WriteString("try{v=sessionStorage.getItem(k);}catch(e){}\n")
	b.WriteString("if(!v){try{v=localStorage.getItem(k);}catch(e){}}\n")
	b.WriteString("if(!v){try{\n")
	b.WriteString("var m=document.cookie.match(new RegExp(\"(?:^|; )\"+k.replace(/[.*+?^${}()|[\\]\\\\]/g,\"\\\\$&\")+\"=([^;]*)\"));\n")
	b.WriteString("if(m){v=decodeURIComponent(m[1]);}\n")
	b.WriteString("}catch(e){}}\n")
	fmt.Fprintf(&b, "var body={scope_id:%s,found:false};\n", jsString(scopeID))
	fmt.Fprintf(&b, "if(v&&v.length>=%d){body.found=true;body.session_id=v;}\n", MinSessionIDLength)
	fmt.Fprintf(&b, "try{fetch(%s,{method:\"POST\",headers:{\"Content-Type\":\"application/json\"},body:JSON.stringify(body)});}catch(e){}\n", jsString(path))
	b.WriteString("})();")
	return b.String()
}
