package teams

// cityPrefixes are stripped from the front of pro team names. Lookup order is
// longest-first; see sortedCityPrefixes.
var cityPrefixes = []string{
	"los angeles", "la", "new york", "ny", "san francisco", "sf",
	"tampa bay", "tb", "golden state", "gs", "san antonio", "sa",
	"oklahoma city", "okc", "new orleans", "no", "green bay", "gb",
	"kansas city", "kc", "las vegas", "lv", "new england", "ne",
	"san diego", "sd", "san jose", "sj", "st louis", "stl",
	"salt lake", "sl", "twin cities", "minnesota", "mn",
	"washington", "dc", "miami", "denver", "phoenix", "seattle",
	"boston", "chicago", "detroit", "houston", "dallas", "atlanta",
	"philadelphia", "baltimore", "cleveland", "indianapolis",
	"jacksonville", "cincinnati", "pittsburgh", "carolina",
	"arizona", "tennessee", "buffalo", "milwaukee", "orlando",
	"memphis", "portland", "sacramento", "utah", "toronto",
	"brooklyn", "colorado", "florida", "anaheim", "columbus",
	"edmonton", "calgary", "vancouver", "ottawa", "montreal",
	"winnipeg", "nashville", "new jersey", "vegas",
}

var nbaNicknames = map[string]string{
	"hawks": "atl", "celtics": "bos", "nets": "bkn", "hornets": "cha",
	"bulls": "chi", "cavaliers": "cle", "cavs": "cle", "mavericks": "dal",
	"mavs": "dal", "nuggets": "den", "pistons": "det", "warriors": "gsw",
	"rockets": "hou", "pacers": "ind", "clippers": "lac", "lakers": "lal",
	"grizzlies": "mem", "heat": "mia", "bucks": "mil", "timberwolves": "min",
	"wolves": "min", "pelicans": "nop", "knicks": "nyk", "thunder": "okc",
	"magic": "orl", "76ers": "phi", "sixers": "phi", "suns": "phx",
	"trail blazers": "por", "blazers": "por", "kings": "sac", "spurs": "sas",
	"raptors": "tor", "jazz": "uta", "wizards": "was",
}

var nflNicknames = map[string]string{
	"cardinals": "ari", "falcons": "atl", "ravens": "bal", "bills": "buf",
	"panthers": "car", "bears": "chi", "bengals": "cin", "browns": "cle",
	"cowboys": "dal", "broncos": "den", "lions": "det", "packers": "gb",
	"texans": "hou", "colts": "ind", "jaguars": "jax", "chiefs": "kc",
	"raiders": "lv", "chargers": "lac", "rams": "lar", "dolphins": "mia",
	"vikings": "min", "patriots": "ne", "pats": "ne", "saints": "no",
	"giants": "nyg", "jets": "nyj", "eagles": "phi", "steelers": "pit",
	"49ers": "sf", "niners": "sf", "seahawks": "sea", "buccaneers": "tb",
	"bucs": "tb", "titans": "ten", "commanders": "was",
}

var nhlNicknames = map[string]string{
	"ducks": "ana", "coyotes": "ari", "bruins": "bos", "sabres": "buf",
	"flames": "cgy", "hurricanes": "car", "blackhawks": "chi", "avalanche": "col",
	"blue jackets": "cbj", "stars": "dal", "red wings": "det", "oilers": "edm",
	"panthers": "fla", "kings": "la", "wild": "min", "canadiens": "mtl",
	"habs": "mtl", "predators": "nsh", "preds": "nsh", "devils": "njd",
	"islanders": "nyi", "rangers": "nyr", "senators": "ott", "sens": "ott",
	"flyers": "phi", "penguins": "pit", "pens": "pit", "sharks": "sjs",
	"kraken": "sea", "blues": "stl", "lightning": "tbl", "bolts": "tbl",
	"maple leafs": "tor", "leafs": "tor", "canucks": "van",
	"golden knights": "vgk", "knights": "vgk", "capitals": "wsh", "caps": "wsh",
	"jets": "wpg",
}

var mlbNicknames = map[string]string{
	"diamondbacks": "ari", "d-backs": "ari", "braves": "atl", "orioles": "bal",
	"red sox": "bos", "cubs": "chc", "white sox": "cws", "reds": "cin",
	"guardians": "cle", "rockies": "col", "tigers": "det", "astros": "hou",
	"royals": "kc", "angels": "laa", "dodgers": "lad", "marlins": "mia",
	"brewers": "mil", "twins": "min", "mets": "nym", "yankees": "nyy",
	"athletics": "ath", "a's": "ath", "phillies": "phi", "pirates": "pit",
	"padres": "sd", "giants": "sf", "mariners": "sea", "cardinals": "stl",
	"rays": "tb", "rangers": "tex", "blue jays": "tor", "jays": "tor",
	"nationals": "wsh", "nats": "wsh",
}

// leagueNicknames lists the per-league tables in merge order. When a nickname
// appears in more than one league, the later league wins in the merged table.
var leagueNicknames = []struct {
	sport string
	table map[string]string
}{
	{"nba", nbaNicknames},
	{"nfl", nflNicknames},
	{"nhl", nhlNicknames},
	{"mlb", mlbNicknames},
}

var fullNameToCode = map[string]string{
	// NBA
	"atlanta hawks": "atl", "boston celtics": "bos", "brooklyn nets": "bkn",
	"charlotte hornets": "cha", "chicago bulls": "chi", "cleveland cavaliers": "cle",
	"dallas mavericks": "dal", "denver nuggets": "den", "detroit pistons": "det",
	"golden state warriors": "gsw", "houston rockets": "hou", "indiana pacers": "ind",
	"los angeles clippers": "lac", "la clippers": "lac", "los angeles lakers": "lal",
	"la lakers": "lal", "memphis grizzlies": "mem", "miami heat": "mia",
	"milwaukee bucks": "mil", "minnesota timberwolves": "min",
	"new orleans pelicans": "nop", "new york knicks": "nyk",
	"oklahoma city thunder": "okc", "orlando magic": "orl",
	"philadelphia 76ers": "phi", "phoenix suns": "phx",
	"portland trail blazers": "por", "sacramento kings": "sac",
	"san antonio spurs": "sas", "toronto raptors": "tor",
	"utah jazz": "uta", "washington wizards": "was",
	// NFL
	"arizona cardinals": "ari", "atlanta falcons": "atl", "baltimore ravens": "bal",
	"buffalo bills": "buf", "carolina panthers": "car", "chicago bears": "chi",
	"cincinnati bengals": "cin", "cleveland browns": "cle", "dallas cowboys": "dal",
	"denver broncos": "den", "detroit lions": "det", "green bay packers": "gb",
	"houston texans": "hou", "indianapolis colts": "ind", "jacksonville jaguars": "jax",
	"kansas city chiefs": "kc", "las vegas raiders": "lv",
	"los angeles chargers": "lac", "la chargers": "lac",
	"los angeles rams": "lar", "la rams": "lar", "miami dolphins": "mia",
	"minnesota vikings": "min", "new england patriots": "ne",
	"new orleans saints": "no", "new york giants": "nyg", "new york jets": "nyj",
	"philadelphia eagles": "phi", "pittsburgh steelers": "pit",
	"san francisco 49ers": "sf", "seattle seahawks": "sea",
	"tampa bay buccaneers": "tb", "tennessee titans": "ten",
	"washington commanders": "was",
	// NHL
	"anaheim ducks": "ana", "arizona coyotes": "ari", "boston bruins": "bos",
	"buffalo sabres": "buf", "calgary flames": "cgy", "carolina hurricanes": "car",
	"chicago blackhawks": "chi", "colorado avalanche": "col",
	"columbus blue jackets": "cbj", "dallas stars": "dal", "detroit red wings": "det",
	"edmonton oilers": "edm", "florida panthers": "fla", "los angeles kings": "la",
	"la kings": "la", "minnesota wild": "min", "montreal canadiens": "mtl",
	"montréal canadiens":  "mtl",
	"nashville predators": "nsh", "new jersey devils": "njd",
	"new york islanders": "nyi", "new york rangers": "nyr", "ottawa senators": "ott",
	"philadelphia flyers": "phi", "pittsburgh penguins": "pit",
	"san jose sharks": "sjs", "seattle kraken": "sea", "st louis blues": "stl",
	"st. louis blues": "stl", "tampa bay lightning": "tbl",
	"toronto maple leafs": "tor", "utah hockey club": "uta",
	"vancouver canucks": "van", "vegas golden knights": "vgk",
	"washington capitals": "wsh", "winnipeg jets": "wpg",
	// MLB
	"arizona diamondbacks": "ari", "atlanta braves": "atl", "baltimore orioles": "bal",
	"boston red sox": "bos", "chicago cubs": "chc", "chicago white sox": "cws",
	"cincinnati reds": "cin", "cleveland guardians": "cle", "colorado rockies": "col",
	"detroit tigers": "det", "houston astros": "hou", "kansas city royals": "kc",
	"los angeles angels": "laa", "la angels": "laa", "los angeles dodgers": "lad",
	"la dodgers": "lad", "miami marlins": "mia", "milwaukee brewers": "mil",
	"minnesota twins": "min", "new york mets": "nym", "new york yankees": "nyy",
	"oakland athletics": "ath", "athletics": "ath", "philadelphia phillies": "phi",
	"pittsburgh pirates": "pit", "san diego padres": "sd", "san francisco giants": "sf",
	"seattle mariners": "sea", "st louis cardinals": "stl", "st. louis cardinals": "stl",
	"tampa bay rays": "tb", "texas rangers": "tex", "toronto blue jays": "tor",
	"washington nationals": "wsh",
}
